package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payslipRepositoryImpl struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

const payslipSelect = `
	SELECT p.id, p.employee_id, p.period_start, p.period_end, p.structure_id, p.template_name, p.monthly_wage,
		   p.basic, p.hra, p.lta, p.bonus, p.standard_allowance, p.fixed_allowance, p.gross,
		   p.pf_employee, p.pf_employer, p.professional_tax, p.other_deductions, p.total_deductions, p.net,
		   p.working_days, p.days_worked, p.prorated_net, p.unpaid_leave_deduction,
		   p.status, p.processed_at, p.payment_date, p.created_at, p.updated_at,
		   e.full_name, e.employee_code
	FROM payslips p
	LEFT JOIN employees e ON e.id = p.employee_id`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd, &p.StructureID, &p.TemplateName, &p.MonthlyWage,
		&p.Basic, &p.HRA, &p.LTA, &p.Bonus, &p.StandardAllowance, &p.FixedAllowance, &p.Gross,
		&p.PFEmployee, &p.PFEmployer, &p.ProfessionalTax, &p.OtherDeductions, &p.TotalDeductions, &p.Net,
		&p.WorkingDays, &p.DaysWorked, &p.ProratedNet, &p.UnpaidLeaveDeduction,
		&p.Status, &p.ProcessedAt, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeCode,
	)
	return p, err
}

// Create implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) Create(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	id := uuid.Must(uuid.NewV7()).String()
	query := `
		INSERT INTO payslips (
			id, employee_id, period_start, period_end, structure_id, template_name, monthly_wage,
			basic, hra, lta, bonus, standard_allowance, fixed_allowance, gross,
			pf_employee, pf_employer, professional_tax, other_deductions, total_deductions, net,
			working_days, days_worked, prorated_net, unpaid_leave_deduction, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)`

	_, err := q.Exec(ctx, query,
		id, payslip.EmployeeID, calendar.Date(payslip.PeriodStart), calendar.Date(payslip.PeriodEnd),
		payslip.StructureID, payslip.TemplateName, payslip.MonthlyWage,
		payslip.Basic, payslip.HRA, payslip.LTA, payslip.Bonus, payslip.StandardAllowance, payslip.FixedAllowance, payslip.Gross,
		payslip.PFEmployee, payslip.PFEmployer, payslip.ProfessionalTax, payslip.OtherDeductions, payslip.TotalDeductions, payslip.Net,
		payslip.WorkingDays, payslip.DaysWorked, payslip.ProratedNet, payslip.UnpaidLeaveDeduction, payslip.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.Payslip{}, payroll.ErrDuplicatePayslip
		}
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayslip(q.QueryRow(ctx, payslipSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip %s: %w", id, err)
	}
	return p, nil
}

// GetByEmployeePeriod implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) GetByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time) (*payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := payslipSelect + ` WHERE p.employee_id = $1 AND p.period_start = $2 AND p.period_end = $3`

	p, err := scanPayslip(q.QueryRow(ctx, query, employeeID, calendar.Date(start), calendar.Date(end)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payslip by period: %w", err)
	}
	return &p, nil
}

// ReplaceDraft implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) ReplaceDraft(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payslips SET
			structure_id = $2, template_name = $3, monthly_wage = $4,
			basic = $5, hra = $6, lta = $7, bonus = $8, standard_allowance = $9, fixed_allowance = $10, gross = $11,
			pf_employee = $12, pf_employer = $13, professional_tax = $14, other_deductions = $15,
			total_deductions = $16, net = $17,
			working_days = $18, days_worked = $19, prorated_net = $20, unpaid_leave_deduction = $21,
			updated_at = NOW()
		WHERE id = $1 AND status = 'draft'`

	tag, err := q.Exec(ctx, query,
		payslip.ID, payslip.StructureID, payslip.TemplateName, payslip.MonthlyWage,
		payslip.Basic, payslip.HRA, payslip.LTA, payslip.Bonus, payslip.StandardAllowance, payslip.FixedAllowance, payslip.Gross,
		payslip.PFEmployee, payslip.PFEmployer, payslip.ProfessionalTax, payslip.OtherDeductions,
		payslip.TotalDeductions, payslip.Net,
		payslip.WorkingDays, payslip.DaysWorked, payslip.ProratedNet, payslip.UnpaidLeaveDeduction,
	)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to replace draft payslip %s: %w", payslip.ID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, payslip.ID); err != nil {
			return payroll.Payslip{}, err
		}
		return payroll.Payslip{}, payroll.ErrDuplicatePayslip
	}
	return r.GetByID(ctx, payslip.ID)
}

// UpdateStatus implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) UpdateStatus(ctx context.Context, payslip payroll.Payslip) error {
	q := GetQuerier(ctx, r.db)

	var paymentDate *time.Time
	if payslip.PaymentDate != nil {
		d := calendar.Date(*payslip.PaymentDate)
		paymentDate = &d
	}

	query := `
		UPDATE payslips
		SET status = $2, processed_at = $3, payment_date = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := q.Exec(ctx, query, payslip.ID, payslip.Status, payslip.ProcessedAt, paymentDate)
	if err != nil {
		return fmt.Errorf("failed to update payslip %s: %w", payslip.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}

// Delete implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payslips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payslip %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}

// List implements payroll.PayslipRepository.
func (r *payslipRepositoryImpl) List(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM p.period_start) = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(MONTH FROM p.period_start) = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM payslips p` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := payslipSelect + where +
		fmt.Sprintf(" ORDER BY p.period_start DESC, p.employee_id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	payslips := []payroll.Payslip{}
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	return payslips, total, rows.Err()
}
