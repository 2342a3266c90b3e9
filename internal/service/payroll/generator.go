package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

func (s *PayrollServiceImpl) GeneratePayslip(ctx context.Context, req payroll.GeneratePayslipRequest) (payroll.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	start, _ := calendar.ParseDate(req.PeriodStart)
	end, _ := calendar.ParseDate(req.PeriodEnd)

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayslipResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	payslip, err := s.generate(ctx, emp, start, end)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payroll.ToPayslipResponse(payslip), nil
}

// GeneratePayslips fans generation out over the requested employees, or every
// active employee when none are listed. Expected per-employee failures are
// reported as skipped; anything else aborts the batch.
func (s *PayrollServiceImpl) GeneratePayslips(ctx context.Context, req payroll.GenerateBatchRequest) (payroll.GenerateBatchResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateBatchResponse{}, err
	}

	start, _ := calendar.ParseDate(req.PeriodStart)
	end, _ := calendar.ParseDate(req.PeriodEnd)

	employees, err := s.batchEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.GenerateBatchResponse{}, err
	}

	type outcome struct {
		payslip *payroll.Payslip
		skip    *payroll.SkippedPayslip
	}
	outcomes := make([]outcome, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			payslip, err := s.generate(gctx, emp, start, end)
			if err == nil {
				outcomes[i] = outcome{payslip: &payslip}
				return nil
			}

			reason, ok := skipReason(err)
			if !ok {
				return fmt.Errorf("failed to generate payslip for employee %s: %w", emp.ID, err)
			}
			outcomes[i] = outcome{skip: &payroll.SkippedPayslip{EmployeeID: emp.ID, Reason: reason}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.GenerateBatchResponse{}, err
	}

	resp := payroll.GenerateBatchResponse{
		Generated: make([]payroll.PayslipResponse, 0, len(employees)),
		Skipped:   make([]payroll.SkippedPayslip, 0),
	}
	for _, o := range outcomes {
		switch {
		case o.payslip != nil:
			resp.Generated = append(resp.Generated, payroll.ToPayslipResponse(*o.payslip))
		case o.skip != nil:
			resp.Skipped = append(resp.Skipped, *o.skip)
		}
	}

	slog.Info("Generated payslip batch",
		"period_start", req.PeriodStart,
		"period_end", req.PeriodEnd,
		"generated", len(resp.Generated),
		"skipped", len(resp.Skipped),
	)
	return resp, nil
}

func (s *PayrollServiceImpl) batchEmployees(ctx context.Context, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		employees, err := s.employeeRepo.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active employees: %w", err)
		}
		return employees, nil
	}

	seen := make(map[string]bool, len(ids))
	employees := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get employee %s: %w", id, err)
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

func skipReason(err error) (payroll.SkipReason, bool) {
	switch {
	case errors.Is(err, payroll.ErrDuplicatePayslip):
		return payroll.SkipReasonDuplicate, true
	case errors.Is(err, salary.ErrNoActiveStructure):
		return payroll.SkipReasonNoStructure, true
	case errors.Is(err, payroll.ErrNoWorkingDays):
		return payroll.SkipReasonNoWorkingDays, true
	case errors.Is(err, payroll.ErrInvalidTemplate), errors.Is(err, payroll.ErrNegativeWage):
		return payroll.SkipReasonInvalidPayroll, true
	}
	return "", false
}

// generate computes the employee's payslip for the period and stores it as a
// draft. An existing draft is recomputed in place; a processed or paid
// payslip blocks regeneration.
func (s *PayrollServiceImpl) generate(ctx context.Context, emp employee.Employee, start, end time.Time) (payroll.Payslip, error) {
	workingDays, err := calendar.BusinessDays(start, end)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("%w: %v", payroll.ErrInvalidPeriod, err)
	}

	var saved payroll.Payslip
	err = s.transactor.WithinEmployee(ctx, emp.ID, func(ctx context.Context) error {
		existing, err := s.payslipRepo.GetByEmployeePeriod(ctx, emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to get existing payslip: %w", err)
		}
		if existing != nil && existing.Status != payroll.PayslipStatusDraft {
			return payroll.ErrDuplicatePayslip
		}

		resolved, err := s.resolver.Resolve(ctx, emp.ID, end)
		if err != nil {
			return err
		}

		breakdown, err := s.calculator.Compute(resolved)
		if err != nil {
			return err
		}

		summary, err := s.summarizer.Summarize(ctx, emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to summarize attendance: %w", err)
		}

		proration, err := s.calculator.Prorate(breakdown, DaysWorked(summary), workingDays)
		if err != nil {
			return err
		}

		payslip := payroll.Payslip{
			EmployeeID:   emp.ID,
			PeriodStart:  start,
			PeriodEnd:    end,
			StructureID:  resolved.StructureID,
			TemplateName: resolved.TemplateName,
			MonthlyWage:  resolved.MonthlyWage,
			Breakdown:    breakdown,
			Proration:    proration,
			Status:       payroll.PayslipStatusDraft,
		}

		if existing != nil {
			payslip.ID = existing.ID
			saved, err = s.payslipRepo.ReplaceDraft(ctx, payslip)
			if err != nil {
				return fmt.Errorf("failed to update draft payslip: %w", err)
			}
			return nil
		}

		saved, err = s.payslipRepo.Create(ctx, payslip)
		if err != nil {
			return fmt.Errorf("failed to create payslip: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.Payslip{}, err
	}

	name, code := emp.FullName, emp.EmployeeCode
	saved.EmployeeName = &name
	saved.EmployeeCode = &code

	slog.Info("Generated payslip",
		"payslip_id", saved.ID,
		"employee_id", emp.ID,
		"period_start", start.Format(calendar.DateLayout),
		"net", saved.Net.String(),
		"prorated_net", saved.ProratedNet.String(),
	)
	return saved, nil
}
