package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
)

// LeaveJobs keeps the current year's leave balances provisioned so monthly
// accrual shows up without waiting for the first read.
type LeaveJobs struct {
	employeeRepo employee.EmployeeRepository
	leaveService leave.LeaveService
	now          func() time.Time
}

func NewLeaveJobs(employeeRepo employee.EmployeeRepository, leaveService leave.LeaveService, now func() time.Time) *LeaveJobs {
	if now == nil {
		now = time.Now
	}
	return &LeaveJobs{
		employeeRepo: employeeRepo,
		leaveService: leaveService,
		now:          now,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("provision_leave_balances", interval, j.ProvisionBalances)
}

// ProvisionBalances ensures every active employee has a balance for every
// leave type in the current year. One failing employee does not stop the run.
func (j *LeaveJobs) ProvisionBalances(ctx context.Context) error {
	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	year := j.now().Year()
	failed := 0
	for _, emp := range employees {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.leaveService.GetLeaveBalances(ctx, emp.ID, year); err != nil {
			failed++
			slog.Warn("Cron: failed to provision leave balances", "employee_id", emp.ID, "year", year, "error", err)
		}
	}

	slog.Info("Cron: provisioned leave balances", "year", year, "employees", len(employees), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d employees failed", failed, len(employees))
	}
	return nil
}
