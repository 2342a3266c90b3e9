package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// BalanceService owns every write to leave balances. Callers hold the
// employee lock.
type BalanceService struct {
	balanceRepo leave.LeaveBalanceRepository
	calculator  *AccrualCalculator
}

func NewBalanceService(balanceRepo leave.LeaveBalanceRepository, calculator *AccrualCalculator) *BalanceService {
	return &BalanceService{
		balanceRepo: balanceRepo,
		calculator:  calculator,
	}
}

// Ensure returns the balance for the employee, type and year, creating it on
// first use. Monthly balances are topped up to the current accrual and never
// reduced.
func (b *BalanceService) Ensure(ctx context.Context, employeeID string, leaveType leave.LeaveType, year int) (leave.Balance, error) {
	accrued := b.calculator.TotalDays(leaveType, year)

	balance, err := b.balanceRepo.GetByEmployeeTypeYear(ctx, employeeID, leaveType.ID, year)
	if err != nil {
		if !errors.Is(err, leave.ErrBalanceNotFound) {
			return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
		}

		balance, err = b.balanceRepo.Create(ctx, leave.Balance{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveType.ID,
			Year:        year,
			TotalDays:   accrued,
			UsedDays:    decimal.Zero,
		})
		if err != nil {
			return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
		}
		slog.Debug("Created leave balance",
			"employee_id", employeeID,
			"leave_type", leaveType.Name,
			"year", year,
			"total_days", balance.TotalDays.String(),
		)
	}

	if accrued.GreaterThan(balance.TotalDays) {
		balance.TotalDays = accrued
		if err := b.balanceRepo.UpdateDays(ctx, balance); err != nil {
			return leave.Balance{}, fmt.Errorf("failed to top up leave balance: %w", err)
		}
	}

	name := leaveType.Name
	balance.LeaveTypeName = &name
	return balance, nil
}

// Consume charges days against the balance. It fails with
// ErrInsufficientBalance instead of letting remaining days go negative.
func (b *BalanceService) Consume(ctx context.Context, balance leave.Balance, days decimal.Decimal) (leave.Balance, error) {
	if days.GreaterThan(balance.RemainingDays()) {
		return leave.Balance{}, leave.ErrInsufficientBalance
	}

	balance.UsedDays = balance.UsedDays.Add(days)
	if err := b.balanceRepo.UpdateDays(ctx, balance); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to consume leave balance: %w", err)
	}
	return balance, nil
}

// Restore gives back days consumed by an approved request.
func (b *BalanceService) Restore(ctx context.Context, balance leave.Balance, days decimal.Decimal) (leave.Balance, error) {
	balance.UsedDays = balance.UsedDays.Sub(days)
	if balance.UsedDays.IsNegative() {
		slog.Warn("Leave balance restore exceeded used days",
			"employee_id", balance.EmployeeID,
			"leave_type_id", balance.LeaveTypeID,
			"year", balance.Year,
		)
		balance.UsedDays = decimal.Zero
	}

	if err := b.balanceRepo.UpdateDays(ctx, balance); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to restore leave balance: %w", err)
	}
	return balance, nil
}
