package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown is the monthly computation for one resolved salary structure.
type Breakdown struct {
	Basic             decimal.Decimal
	HRA               decimal.Decimal
	LTA               decimal.Decimal
	Bonus             decimal.Decimal
	StandardAllowance decimal.Decimal
	FixedAllowance    decimal.Decimal
	Gross             decimal.Decimal

	PFEmployee      decimal.Decimal
	PFEmployer      decimal.Decimal // reported, not deducted
	ProfessionalTax decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal

	Net decimal.Decimal
}

// Proration scales a breakdown's net pay by attendance.
type Proration struct {
	WorkingDays          int
	DaysWorked           decimal.Decimal
	ProratedNet          decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
}

// PayslipStatus enum
type PayslipStatus string

const (
	PayslipStatusDraft     PayslipStatus = "draft"
	PayslipStatusProcessed PayslipStatus = "processed"
	PayslipStatusPaid      PayslipStatus = "paid"
)

func (s PayslipStatus) IsValid() bool {
	switch s {
	case PayslipStatusDraft, PayslipStatusProcessed, PayslipStatusPaid:
		return true
	}
	return false
}

// Payslip - one employee's pay for one period. Every amount is a snapshot
// taken at generation time.
type Payslip struct {
	ID          string
	EmployeeID  string
	PeriodStart time.Time
	PeriodEnd   time.Time

	StructureID  string
	TemplateName string
	MonthlyWage  decimal.Decimal

	Breakdown
	Proration

	Status      PayslipStatus
	ProcessedAt *time.Time
	PaymentDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
