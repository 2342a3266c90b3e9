package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

const defaultBatchConcurrency = 4

type PayrollServiceImpl struct {
	transactor   database.Transactor
	payslipRepo  payroll.PayslipRepository
	employeeRepo employee.EmployeeRepository
	templateRepo salary.TemplateRepository
	resolver     salary.Resolver
	summarizer   attendance.Summarizer
	calculator   *Calculator
	concurrency  int
	now          func() time.Time
}

func NewPayrollService(
	transactor database.Transactor,
	payslipRepo payroll.PayslipRepository,
	employeeRepo employee.EmployeeRepository,
	templateRepo salary.TemplateRepository,
	resolver salary.Resolver,
	summarizer attendance.Summarizer,
	calculator *Calculator,
	concurrency int,
	now func() time.Time,
) payroll.PayrollService {
	if concurrency < 1 {
		concurrency = defaultBatchConcurrency
	}
	if now == nil {
		now = time.Now
	}
	return &PayrollServiceImpl{
		transactor:   transactor,
		payslipRepo:  payslipRepo,
		employeeRepo: employeeRepo,
		templateRepo: templateRepo,
		resolver:     resolver,
		summarizer:   summarizer,
		calculator:   calculator,
		concurrency:  concurrency,
		now:          now,
	}
}

// ========== PREVIEW ==========

// PreviewPayroll runs the calculator without persisting anything.
func (s *PayrollServiceImpl) PreviewPayroll(ctx context.Context, req payroll.PreviewRequest) (payroll.BreakdownResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BreakdownResponse{}, err
	}

	resolved, err := s.previewStructure(ctx, req)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}

	breakdown, err := s.calculator.Compute(resolved)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}
	resp := payroll.ToBreakdownResponse(resolved.MonthlyWage, breakdown)

	if req.WorkingDays != nil && req.DaysWorked != nil {
		proration, err := s.calculator.Prorate(breakdown, *req.DaysWorked, *req.WorkingDays)
		if err != nil {
			return payroll.BreakdownResponse{}, err
		}
		resp.WorkingDays = &proration.WorkingDays
		resp.DaysWorked = &proration.DaysWorked
		resp.ProratedNet = &proration.ProratedNet
	}

	return resp, nil
}

// previewStructure resolves the employee's structure, or builds an ad-hoc
// one from a template, and applies the request's overrides.
func (s *PayrollServiceImpl) previewStructure(ctx context.Context, req payroll.PreviewRequest) (salary.Resolved, error) {
	var resolved salary.Resolved

	if req.EmployeeID != "" {
		asOf := calendar.Date(s.now())
		if req.AsOf != "" {
			asOf, _ = calendar.ParseDate(req.AsOf)
		}

		var err error
		resolved, err = s.resolver.Resolve(ctx, req.EmployeeID, asOf)
		if err != nil {
			return salary.Resolved{}, err
		}
		if req.MonthlyWage != nil {
			resolved.MonthlyWage = *req.MonthlyWage
		}
	} else {
		template, err := s.templateRepo.GetByID(ctx, req.TemplateID)
		if err != nil {
			return salary.Resolved{}, fmt.Errorf("failed to get salary template: %w", err)
		}
		resolved = salary.Merge(salary.Structure{MonthlyWage: *req.MonthlyWage}, template)
	}

	if req.PerformanceBonusPercent != nil {
		resolved.BonusPercent = *req.PerformanceBonusPercent
	}
	if req.FixedAllowance != nil {
		resolved.FixedAllowance = *req.FixedAllowance
	}
	if req.OtherDeductions != nil {
		resolved.OtherDeductions = *req.OtherDeductions
	}
	return resolved, nil
}

// ========== LIFECYCLE ==========

// ProcessPayslip moves a draft to processed. Processed payslips are never
// recomputed.
func (s *PayrollServiceImpl) ProcessPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	return s.transition(ctx, id, func(p *payroll.Payslip) error {
		switch p.Status {
		case payroll.PayslipStatusPaid:
			return payroll.ErrImmutablePayslip
		case payroll.PayslipStatusDraft:
		default:
			return payroll.ErrInvalidPayslipState
		}

		processedAt := s.now().UTC()
		p.Status = payroll.PayslipStatusProcessed
		p.ProcessedAt = &processedAt
		return s.payslipRepo.UpdateStatus(ctx, *p)
	})
}

// MarkPayslipPaid moves a processed payslip to paid with today's payment date.
func (s *PayrollServiceImpl) MarkPayslipPaid(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	return s.transition(ctx, id, func(p *payroll.Payslip) error {
		switch p.Status {
		case payroll.PayslipStatusPaid:
			return payroll.ErrImmutablePayslip
		case payroll.PayslipStatusProcessed:
		default:
			return payroll.ErrInvalidPayslipState
		}

		paymentDate := calendar.Date(s.now())
		p.Status = payroll.PayslipStatusPaid
		p.PaymentDate = &paymentDate
		return s.payslipRepo.UpdateStatus(ctx, *p)
	})
}

func (s *PayrollServiceImpl) DeletePayslip(ctx context.Context, id string) error {
	_, err := s.transition(ctx, id, func(p *payroll.Payslip) error {
		switch p.Status {
		case payroll.PayslipStatusPaid:
			return payroll.ErrImmutablePayslip
		case payroll.PayslipStatusDraft:
		default:
			return payroll.ErrInvalidPayslipState
		}
		return s.payslipRepo.Delete(ctx, p.ID)
	})
	return err
}

// transition applies fn to the payslip under its employee's lock.
func (s *PayrollServiceImpl) transition(ctx context.Context, id string, fn func(p *payroll.Payslip) error) (payroll.PayslipResponse, error) {
	current, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	var updated payroll.Payslip
	err = s.transactor.WithinEmployee(ctx, current.EmployeeID, func(ctx context.Context) error {
		p, err := s.payslipRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get payslip: %w", err)
		}
		from := p.Status
		if err := fn(&p); err != nil {
			return err
		}
		updated = p

		slog.Info("Payslip status changed",
			"payslip_id", p.ID,
			"employee_id", p.EmployeeID,
			"from", from,
			"to", p.Status,
		)
		return nil
	})
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.ToPayslipResponse(updated), nil
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	p, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return payroll.ToPayslipResponse(p), nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) (payroll.ListPayslipResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	payslips, total, err := s.payslipRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayslipResponse{}, fmt.Errorf("failed to list payslips: %w", err)
	}

	data := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		data = append(data, payroll.ToPayslipResponse(p))
	}

	return payroll.ListPayslipResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}
