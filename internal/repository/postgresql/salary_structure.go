package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salaryStructureRepositoryImpl struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) salary.StructureRepository {
	return &salaryStructureRepositoryImpl{db: db}
}

const salaryStructureColumns = `id, employee_id, template_id, monthly_wage, performance_bonus_percent,
	fixed_allowance, other_deductions, effective_from, created_at, updated_at`

func scanSalaryStructure(row pgx.Row) (salary.Structure, error) {
	var s salary.Structure
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.TemplateID, &s.MonthlyWage, &s.PerformanceBonusPercent,
		&s.FixedAllowance, &s.OtherDeductions, &s.EffectiveFrom, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements salary.StructureRepository.
func (r *salaryStructureRepositoryImpl) Create(ctx context.Context, structure salary.Structure) (salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_structures (id, employee_id, template_id, monthly_wage, performance_bonus_percent,
			fixed_allowance, other_deductions, effective_from)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + salaryStructureColumns

	created, err := scanSalaryStructure(q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(),
		structure.EmployeeID,
		structure.TemplateID,
		structure.MonthlyWage,
		structure.PerformanceBonusPercent,
		structure.FixedAllowance,
		structure.OtherDeductions,
		calendar.Date(structure.EffectiveFrom),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return salary.Structure{}, salary.ErrDuplicateEffectiveDate
		}
		return salary.Structure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}
	return created, nil
}

// GetByID implements salary.StructureRepository.
func (r *salaryStructureRepositoryImpl) GetByID(ctx context.Context, id string) (salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSalaryStructure(q.QueryRow(ctx, `SELECT `+salaryStructureColumns+` FROM salary_structures WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Structure{}, salary.ErrStructureNotFound
		}
		return salary.Structure{}, fmt.Errorf("failed to get salary structure %s: %w", id, err)
	}
	return s, nil
}

// ExistsByEmployeeAndEffectiveFrom implements salary.StructureRepository.
func (r *salaryStructureRepositoryImpl) ExistsByEmployeeAndEffectiveFrom(ctx context.Context, employeeID string, effectiveFrom time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM salary_structures WHERE employee_id = $1 AND effective_from = $2)`
	if err := q.QueryRow(ctx, query, employeeID, calendar.Date(effectiveFrom)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check salary structure: %w", err)
	}
	return exists, nil
}

// ListByEmployee implements salary.StructureRepository.
func (r *salaryStructureRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryStructureColumns + ` FROM salary_structures WHERE employee_id = $1 ORDER BY effective_from DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}
	defer rows.Close()

	structures := []salary.Structure{}
	for rows.Next() {
		s, err := scanSalaryStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary structure: %w", err)
		}
		structures = append(structures, s)
	}
	return structures, rows.Err()
}

// GetEffective implements salary.StructureRepository.
func (r *salaryStructureRepositoryImpl) GetEffective(ctx context.Context, employeeID string, asOf time.Time) (salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + salaryStructureColumns + `
		FROM salary_structures
		WHERE employee_id = $1 AND effective_from <= $2
		ORDER BY effective_from DESC
		LIMIT 1`

	s, err := scanSalaryStructure(q.QueryRow(ctx, query, employeeID, calendar.Date(asOf)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Structure{}, salary.ErrNoActiveStructure
		}
		return salary.Structure{}, fmt.Errorf("failed to get effective salary structure: %w", err)
	}
	return s, nil
}
