package payroll

import (
	"context"
)

type PayrollService interface {
	// Computation
	PreviewPayroll(ctx context.Context, req PreviewRequest) (BreakdownResponse, error)

	// Payslips
	GeneratePayslip(ctx context.Context, req GeneratePayslipRequest) (PayslipResponse, error)
	GeneratePayslips(ctx context.Context, req GenerateBatchRequest) (GenerateBatchResponse, error)
	ProcessPayslip(ctx context.Context, id string) (PayslipResponse, error)
	MarkPayslipPaid(ctx context.Context, id string) (PayslipResponse, error)
	DeletePayslip(ctx context.Context, id string) error
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) (ListPayslipResponse, error)
}
