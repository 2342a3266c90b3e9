package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

type AccrualCalculator struct {
	now func() time.Time
}

func NewAccrualCalculator(now func() time.Time) *AccrualCalculator {
	if now == nil {
		now = time.Now
	}
	return &AccrualCalculator{now: now}
}

// TotalDays returns the allowance a leave type grants for year as of today.
func (c *AccrualCalculator) TotalDays(leaveType leave.LeaveType, year int) decimal.Decimal {
	if leaveType.AccrualPolicy != leave.AccrualMonthly {
		return leaveType.AnnualEntitlement
	}

	months := c.monthsElapsed(year)
	return leaveType.AnnualEntitlement.
		Mul(decimal.NewFromInt(int64(months))).
		Div(monthsPerYear).
		Round(2)
}

// monthsElapsed counts the current month as elapsed.
func (c *AccrualCalculator) monthsElapsed(year int) int {
	today := c.now()
	switch {
	case year < today.Year():
		return 12
	case year > today.Year():
		return 0
	default:
		return int(today.Month())
	}
}
