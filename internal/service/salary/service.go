package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
)

type SalaryServiceImpl struct {
	templateRepo  salary.TemplateRepository
	structureRepo salary.StructureRepository
	employeeRepo  employee.EmployeeRepository
}

func NewSalaryService(
	templateRepo salary.TemplateRepository,
	structureRepo salary.StructureRepository,
	employeeRepo employee.EmployeeRepository,
) salary.SalaryService {
	return &SalaryServiceImpl{
		templateRepo:  templateRepo,
		structureRepo: structureRepo,
		employeeRepo:  employeeRepo,
	}
}

// ========== TEMPLATES ==========

func (s *SalaryServiceImpl) CreateTemplate(ctx context.Context, req salary.CreateTemplateRequest) (salary.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.TemplateResponse{}, err
	}

	exists, err := s.templateRepo.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return salary.TemplateResponse{}, fmt.Errorf("failed to check template name: %w", err)
	}
	if exists {
		return salary.TemplateResponse{}, salary.ErrTemplateNameExists
	}

	created, err := s.templateRepo.Create(ctx, req.ToTemplate())
	if err != nil {
		return salary.TemplateResponse{}, fmt.Errorf("failed to create salary template: %w", err)
	}

	slog.Info("Created salary template", "template_id", created.ID, "name", created.Name)
	return salary.ToTemplateResponse(created), nil
}

// UpdateTemplate changes a template in place. Structures pick up the new
// values the next time they are resolved; existing payslips keep their
// snapshot.
func (s *SalaryServiceImpl) UpdateTemplate(ctx context.Context, req salary.UpdateTemplateRequest) (salary.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.TemplateResponse{}, err
	}

	current, err := s.templateRepo.GetByID(ctx, req.ID)
	if err != nil {
		return salary.TemplateResponse{}, fmt.Errorf("failed to get salary template: %w", err)
	}

	if req.Name != nil && *req.Name != current.Name {
		exists, err := s.templateRepo.ExistsByName(ctx, *req.Name, &current.ID)
		if err != nil {
			return salary.TemplateResponse{}, fmt.Errorf("failed to check template name: %w", err)
		}
		if exists {
			return salary.TemplateResponse{}, salary.ErrTemplateNameExists
		}
	}

	updated, err := s.templateRepo.Update(ctx, req.Apply(current))
	if err != nil {
		return salary.TemplateResponse{}, fmt.Errorf("failed to update salary template: %w", err)
	}

	return salary.ToTemplateResponse(updated), nil
}

func (s *SalaryServiceImpl) GetTemplate(ctx context.Context, id string) (salary.TemplateResponse, error) {
	t, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return salary.TemplateResponse{}, fmt.Errorf("failed to get salary template: %w", err)
	}
	return salary.ToTemplateResponse(t), nil
}

func (s *SalaryServiceImpl) ListTemplates(ctx context.Context) ([]salary.TemplateResponse, error) {
	templates, err := s.templateRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary templates: %w", err)
	}

	resp := make([]salary.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, salary.ToTemplateResponse(t))
	}
	return resp, nil
}

// ========== STRUCTURES ==========

func (s *SalaryServiceImpl) CreateStructure(ctx context.Context, req salary.CreateStructureRequest) (salary.StructureResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.StructureResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return salary.StructureResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if _, err := s.templateRepo.GetByID(ctx, req.TemplateID); err != nil {
		return salary.StructureResponse{}, fmt.Errorf("failed to get salary template: %w", err)
	}

	effectiveFrom, err := calendar.ParseDate(req.EffectiveFrom)
	if err != nil {
		return salary.StructureResponse{}, fmt.Errorf("failed to parse effective_from: %w", err)
	}

	exists, err := s.structureRepo.ExistsByEmployeeAndEffectiveFrom(ctx, req.EmployeeID, effectiveFrom)
	if err != nil {
		return salary.StructureResponse{}, fmt.Errorf("failed to check effective date: %w", err)
	}
	if exists {
		return salary.StructureResponse{}, salary.ErrDuplicateEffectiveDate
	}

	structure := salary.Structure{
		EmployeeID:              req.EmployeeID,
		TemplateID:              req.TemplateID,
		MonthlyWage:             req.MonthlyWage,
		PerformanceBonusPercent: valueOrZero(req.PerformanceBonusPercent),
		FixedAllowance:          valueOrZero(req.FixedAllowance),
		OtherDeductions:         valueOrZero(req.OtherDeductions),
		EffectiveFrom:           effectiveFrom,
	}

	created, err := s.structureRepo.Create(ctx, structure)
	if err != nil {
		return salary.StructureResponse{}, fmt.Errorf("failed to create salary structure: %w", err)
	}

	slog.Info("Created salary structure",
		"structure_id", created.ID,
		"employee_id", created.EmployeeID,
		"effective_from", req.EffectiveFrom,
	)
	return salary.ToStructureResponse(created), nil
}

func (s *SalaryServiceImpl) ListStructures(ctx context.Context, employeeID string) ([]salary.StructureResponse, error) {
	structures, err := s.structureRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}

	resp := make([]salary.StructureResponse, 0, len(structures))
	for _, st := range structures {
		resp = append(resp, salary.ToStructureResponse(st))
	}
	return resp, nil
}

// Resolve merges the structure in force on asOf with its template.
func (s *SalaryServiceImpl) Resolve(ctx context.Context, employeeID string, asOf time.Time) (salary.Resolved, error) {
	structure, err := s.structureRepo.GetEffective(ctx, employeeID, calendar.Date(asOf))
	if err != nil {
		if errors.Is(err, salary.ErrNoActiveStructure) {
			return salary.Resolved{}, err
		}
		return salary.Resolved{}, fmt.Errorf("failed to get effective salary structure: %w", err)
	}

	template, err := s.templateRepo.GetByID(ctx, structure.TemplateID)
	if err != nil {
		return salary.Resolved{}, fmt.Errorf("failed to get salary template for structure %s: %w", structure.ID, err)
	}

	return salary.Merge(structure, template), nil
}
