package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

var half = decimal.RequireFromString("0.5")

// Calculator is the single place where salary formulas are evaluated. Every
// intermediate amount is rounded before it feeds the next step.
type Calculator struct {
	rounder money.Rounder
}

func NewCalculator(scale int32) *Calculator {
	return &Calculator{rounder: money.NewRounder(scale)}
}

// Compute evaluates the resolved structure into a monthly breakdown.
func (c *Calculator) Compute(s salary.Resolved) (payroll.Breakdown, error) {
	if !s.MonthlyWage.IsPositive() {
		return payroll.Breakdown{}, payroll.ErrNegativeWage
	}
	if money.IsNegative(
		s.BasicPercent, s.HRAPercent, s.LTAPercent, s.BonusPercent,
		s.PFEmployeePercent, s.PFEmployerPercent,
		s.StandardAllowance, s.FixedAllowance, s.ProfessionalTax, s.OtherDeductions,
	) {
		return payroll.Breakdown{}, fmt.Errorf("%w: negative percentage or amount", payroll.ErrInvalidTemplate)
	}

	r := c.rounder
	var b payroll.Breakdown

	b.Basic = r.Percent(s.MonthlyWage, s.BasicPercent)
	b.HRA = r.Percent(b.Basic, s.HRAPercent)
	b.LTA = r.Percent(s.MonthlyWage, s.LTAPercent)
	b.Bonus = r.Percent(s.MonthlyWage, s.BonusPercent)
	b.StandardAllowance = r.Round(s.StandardAllowance)
	b.FixedAllowance = r.Round(s.FixedAllowance)
	b.Gross = r.Sum(b.Basic, b.HRA, b.LTA, b.Bonus, b.StandardAllowance, b.FixedAllowance)

	b.PFEmployee = r.Percent(b.Basic, s.PFEmployeePercent)
	b.PFEmployer = r.Percent(b.Basic, s.PFEmployerPercent)
	b.ProfessionalTax = r.Round(s.ProfessionalTax)
	b.OtherDeductions = r.Round(s.OtherDeductions)
	b.TotalDeductions = r.Sum(b.PFEmployee, b.ProfessionalTax, b.OtherDeductions)

	b.Net = r.Round(b.Gross.Sub(b.TotalDeductions))
	if b.Net.IsNegative() {
		return payroll.Breakdown{}, fmt.Errorf("%w: deductions %s exceed gross %s", payroll.ErrInvalidTemplate, b.TotalDeductions, b.Gross)
	}

	return b, nil
}

// Prorate scales net pay by daysWorked / workingDays. Days worked beyond the
// working days of the period are not paid extra.
func (c *Calculator) Prorate(b payroll.Breakdown, daysWorked decimal.Decimal, workingDays int) (payroll.Proration, error) {
	if workingDays <= 0 {
		return payroll.Proration{}, payroll.ErrNoWorkingDays
	}
	if daysWorked.IsNegative() {
		return payroll.Proration{}, fmt.Errorf("days worked must be non-negative, got %s", daysWorked)
	}

	wd := decimal.NewFromInt(int64(workingDays))
	paid := decimal.Min(daysWorked, wd)

	prorated := c.rounder.Round(b.Net.Mul(paid).Div(wd))

	return payroll.Proration{
		WorkingDays:          workingDays,
		DaysWorked:           daysWorked,
		ProratedNet:          prorated,
		UnpaidLeaveDeduction: c.rounder.Round(b.Net.Sub(prorated)),
	}, nil
}

// DaysWorked counts present and late days as one, half days as one half and
// paid leave as one. Unpaid leave and absences count as zero.
func DaysWorked(s attendance.Summary) decimal.Decimal {
	full := decimal.NewFromInt(int64(s.Present + s.Late + s.PaidLeave))
	return full.Add(half.Mul(decimal.NewFromInt(int64(s.HalfDay))))
}
