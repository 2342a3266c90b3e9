package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccrualCalculator_TotalDays(t *testing.T) {
	calc := NewAccrualCalculator(func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	})

	flat := leave.LeaveType{AnnualEntitlement: decimal.NewFromInt(18), AccrualPolicy: leave.AccrualFlat}
	monthly := leave.LeaveType{AnnualEntitlement: decimal.NewFromInt(18), AccrualPolicy: leave.AccrualMonthly}
	odd := leave.LeaveType{AnnualEntitlement: decimal.NewFromInt(10), AccrualPolicy: leave.AccrualMonthly}

	tests := []struct {
		name      string
		leaveType leave.LeaveType
		year      int
		want      string
	}{
		{"flat current year", flat, 2024, "18"},
		{"flat future year", flat, 2025, "18"},
		{"monthly current year", monthly, 2024, "4.5"},
		{"monthly past year", monthly, 2023, "18"},
		{"monthly future year", monthly, 2025, "0"},
		{"monthly rounds to two places", odd, 2024, "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.TotalDays(tt.leaveType, tt.year)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestAccrualCalculator_RoundsHalfUp(t *testing.T) {
	calc := NewAccrualCalculator(func() time.Time {
		return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	})

	// 7 / 12 = 0.58333...
	got := calc.TotalDays(leave.LeaveType{AnnualEntitlement: decimal.NewFromInt(7), AccrualPolicy: leave.AccrualMonthly}, 2024)
	assert.Equal(t, "0.58", got.String())
}
