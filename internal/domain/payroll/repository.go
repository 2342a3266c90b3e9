package payroll

import (
	"context"
	"time"
)

type PayslipRepository interface {
	Create(ctx context.Context, payslip Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string) (Payslip, error)

	// GetByEmployeePeriod returns nil without error when no payslip exists.
	GetByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time) (*Payslip, error)

	// ReplaceDraft overwrites every computed field of a draft payslip.
	ReplaceDraft(ctx context.Context, payslip Payslip) (Payslip, error)
	UpdateStatus(ctx context.Context, payslip Payslip) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PayslipFilter) ([]Payslip, int64, error)
}
