package payroll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	salaryService "github.com/cmlabs-hris/hris-payroll-go/internal/service/salary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSummarizer reports a fixed number of present days per employee.
type fakeSummarizer struct {
	mu      sync.Mutex
	present map[string]int
	calls   int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, employeeID string, from, to time.Time) (attendance.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return attendance.Summary{EmployeeID: employeeID, From: from, To: to, Present: f.present[employeeID]}, nil
}

func (f *fakeSummarizer) set(employeeID string, present int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.present[employeeID] = present
}

type payrollFixture struct {
	svc        payroll.PayrollService
	salaries   salary.SalaryService
	employees  *memory.EmployeeRepository
	summarizer *fakeSummarizer
	template   salary.TemplateResponse
}

// Friday 5 April 2024.
var payrollNow = time.Date(2024, 4, 5, 9, 0, 0, 0, time.UTC)

func newPayrollFixture(t *testing.T) payrollFixture {
	t.Helper()
	ctx := context.Background()

	employees := memory.NewEmployeeRepository()
	templates := memory.NewTemplateRepository()
	salaries := salaryService.NewSalaryService(templates, memory.NewStructureRepository(), employees)
	summarizer := &fakeSummarizer{present: map[string]int{}}

	allowance := d("2000")
	template, err := salaries.CreateTemplate(ctx, salary.CreateTemplateRequest{
		Name:              "Standard",
		StandardAllowance: &allowance,
	})
	require.NoError(t, err)

	svc := NewPayrollService(
		database.NewLocalTransactor(),
		memory.NewPayslipRepository(),
		employees,
		templates,
		salaries,
		summarizer,
		NewCalculator(0),
		2,
		func() time.Time { return payrollNow },
	)

	return payrollFixture{
		svc:        svc,
		salaries:   salaries,
		employees:  employees,
		summarizer: summarizer,
		template:   template,
	}
}

// hire creates an employee and, when wage is non-empty, a structure effective
// from 1 January 2024.
func (f payrollFixture) hire(t *testing.T, code, wage string) employee.Employee {
	t.Helper()
	ctx := context.Background()

	emp, err := f.employees.Create(ctx, employee.Employee{
		EmployeeCode:   code,
		FullName:       "Employee " + code,
		Email:          code + "@example.com",
		HireDate:       time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		EmploymentType: employee.EmploymentTypeFullTime,
		IsActive:       true,
	})
	require.NoError(t, err)

	if wage != "" {
		bonus := d("10")
		_, err = f.salaries.CreateStructure(ctx, salary.CreateStructureRequest{
			EmployeeID:              emp.ID,
			TemplateID:              f.template.ID,
			MonthlyWage:             d(wage),
			PerformanceBonusPercent: &bonus,
			EffectiveFrom:           "2024-01-01",
		})
		require.NoError(t, err)
	}
	return emp
}

func march(employeeID string) payroll.GeneratePayslipRequest {
	return payroll.GeneratePayslipRequest{EmployeeID: employeeID, PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31"}
}

func TestPreviewPayroll_AdHoc(t *testing.T) {
	f := newPayrollFixture(t)

	wage, bonus := d("50000"), d("10")
	workingDays, daysWorked := 22, d("20")
	resp, err := f.svc.PreviewPayroll(context.Background(), payroll.PreviewRequest{
		TemplateID:              f.template.ID,
		MonthlyWage:             &wage,
		PerformanceBonusPercent: &bonus,
		WorkingDays:             &workingDays,
		DaysWorked:              &daysWorked,
	})
	require.NoError(t, err)

	assertAmount(t, "48665", resp.Gross, "gross")
	assertAmount(t, "45465", resp.Net, "net")
	require.NotNil(t, resp.ProratedNet)
	assertAmount(t, "41332", *resp.ProratedNet, "prorated_net")
}

func TestPreviewPayroll_RejectsUnstorablePrecision(t *testing.T) {
	f := newPayrollFixture(t)

	wage, allowance := d("50000.555"), d("0.125")
	_, err := f.svc.PreviewPayroll(context.Background(), payroll.PreviewRequest{
		TemplateID:     f.template.ID,
		MonthlyWage:    &wage,
		FixedAllowance: &allowance,
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "err = %v", err)
	assert.Contains(t, verrs.ToMap(), "monthly_wage")
	assert.Contains(t, verrs.ToMap(), "fixed_allowance")
}

func TestPreviewPayroll_Employee(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	emp := f.hire(t, "EMP-001", "50000")

	resp, err := f.svc.PreviewPayroll(ctx, payroll.PreviewRequest{EmployeeID: emp.ID})
	require.NoError(t, err)
	assertAmount(t, "45465", resp.Net, "net")
	assert.Nil(t, resp.ProratedNet)

	_, err = f.svc.PreviewPayroll(ctx, payroll.PreviewRequest{EmployeeID: emp.ID, AsOf: "2023-12-31"})
	assert.ErrorIs(t, err, salary.ErrNoActiveStructure)

	t.Run("proration inputs must come together", func(t *testing.T) {
		days := 22
		_, err := f.svc.PreviewPayroll(ctx, payroll.PreviewRequest{EmployeeID: emp.ID, WorkingDays: &days})
		var verrs validator.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})

	t.Run("deductions above gross", func(t *testing.T) {
		other := d("100000")
		_, err := f.svc.PreviewPayroll(ctx, payroll.PreviewRequest{EmployeeID: emp.ID, OtherDeductions: &other})
		assert.ErrorIs(t, err, payroll.ErrInvalidTemplate)
	})
}

func TestGeneratePayslip(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	emp := f.hire(t, "EMP-001", "50000")

	// March 2024 has 21 working days.
	f.summarizer.set(emp.ID, 20)
	first, err := f.svc.GeneratePayslip(ctx, march(emp.ID))
	require.NoError(t, err)

	assert.Equal(t, "draft", first.Status)
	assert.Equal(t, "Standard", first.TemplateName)
	require.NotNil(t, first.WorkingDays)
	assert.Equal(t, 21, *first.WorkingDays)
	assertAmount(t, "45465", first.Net, "net")
	assertAmount(t, "43300", *first.ProratedNet, "prorated_net")
	assertAmount(t, "2165", first.UnpaidLeaveDeduction, "unpaid_leave_deduction")
	require.NotNil(t, first.EmployeeCode)
	assert.Equal(t, "EMP-001", *first.EmployeeCode)

	t.Run("regenerating a draft recomputes in place", func(t *testing.T) {
		f.summarizer.set(emp.ID, 21)
		second, err := f.svc.GeneratePayslip(ctx, march(emp.ID))
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assertAmount(t, "45465", *second.ProratedNet, "prorated_net")
		assertAmount(t, "0", second.UnpaidLeaveDeduction, "unpaid_leave_deduction")
	})

	t.Run("generating after processing is a duplicate", func(t *testing.T) {
		_, err := f.svc.ProcessPayslip(ctx, first.ID)
		require.NoError(t, err)

		_, err = f.svc.GeneratePayslip(ctx, march(emp.ID))
		assert.ErrorIs(t, err, payroll.ErrDuplicatePayslip)
	})
}

func TestGeneratePayslip_Errors(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()

	withStructure := f.hire(t, "EMP-001", "50000")
	withoutStructure := f.hire(t, "EMP-002", "")

	_, err := f.svc.GeneratePayslip(ctx, march(withoutStructure.ID))
	assert.ErrorIs(t, err, salary.ErrNoActiveStructure)

	_, err = f.svc.GeneratePayslip(ctx, march("missing"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.GeneratePayslip(ctx, payroll.GeneratePayslipRequest{
		EmployeeID: withStructure.ID, PeriodStart: "2024-03-02", PeriodEnd: "2024-03-03",
	})
	assert.ErrorIs(t, err, payroll.ErrNoWorkingDays)

	_, err = f.svc.GeneratePayslip(ctx, payroll.GeneratePayslipRequest{
		EmployeeID: withStructure.ID, PeriodStart: "2024-03-01", PeriodEnd: "2024-04-15",
	})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestPayslipLifecycle(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	emp := f.hire(t, "EMP-001", "50000")

	draft, err := f.svc.GeneratePayslip(ctx, march(emp.ID))
	require.NoError(t, err)

	_, err = f.svc.MarkPayslipPaid(ctx, draft.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidPayslipState)

	processed, err := f.svc.ProcessPayslip(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "processed", processed.Status)
	assert.NotNil(t, processed.ProcessedAt)

	_, err = f.svc.ProcessPayslip(ctx, draft.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidPayslipState)

	err = f.svc.DeletePayslip(ctx, draft.ID)
	assert.ErrorIs(t, err, payroll.ErrInvalidPayslipState)

	paid, err := f.svc.MarkPayslipPaid(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "2024-04-05", *paid.PaymentDate)

	_, err = f.svc.MarkPayslipPaid(ctx, draft.ID)
	assert.ErrorIs(t, err, payroll.ErrImmutablePayslip)
	_, err = f.svc.ProcessPayslip(ctx, draft.ID)
	assert.ErrorIs(t, err, payroll.ErrImmutablePayslip)
	err = f.svc.DeletePayslip(ctx, draft.ID)
	assert.ErrorIs(t, err, payroll.ErrImmutablePayslip)

	got, err := f.svc.GetPayslip(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)
}

func TestDeletePayslip_Draft(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()
	emp := f.hire(t, "EMP-001", "50000")

	draft, err := f.svc.GeneratePayslip(ctx, march(emp.ID))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePayslip(ctx, draft.ID))

	_, err = f.svc.GetPayslip(ctx, draft.ID)
	assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
}

func TestGeneratePayslips_Batch(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()

	ready := f.hire(t, "EMP-001", "50000")
	second := f.hire(t, "EMP-002", "40000")
	noStructure := f.hire(t, "EMP-003", "")
	done := f.hire(t, "EMP-004", "30000")
	inactive := f.hire(t, "EMP-005", "30000")
	require.NoError(t, f.employees.SetActive(ctx, inactive.ID, false))

	processed, err := f.svc.GeneratePayslip(ctx, march(done.ID))
	require.NoError(t, err)
	_, err = f.svc.ProcessPayslip(ctx, processed.ID)
	require.NoError(t, err)

	resp, err := f.svc.GeneratePayslips(ctx, payroll.GenerateBatchRequest{PeriodStart: "2024-03-01", PeriodEnd: "2024-03-31"})
	require.NoError(t, err)

	generated := map[string]bool{}
	for _, p := range resp.Generated {
		generated[p.EmployeeID] = true
	}
	assert.Len(t, resp.Generated, 2)
	assert.True(t, generated[ready.ID])
	assert.True(t, generated[second.ID])
	assert.False(t, generated[inactive.ID])

	skipped := map[string]payroll.SkipReason{}
	for _, s := range resp.Skipped {
		skipped[s.EmployeeID] = s.Reason
	}
	assert.Equal(t, map[string]payroll.SkipReason{
		noStructure.ID: payroll.SkipReasonNoStructure,
		done.ID:        payroll.SkipReasonDuplicate,
	}, skipped)
}

func TestGeneratePayslips_ExplicitEmployees(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()

	emp := f.hire(t, "EMP-001", "50000")
	f.hire(t, "EMP-002", "40000")

	resp, err := f.svc.GeneratePayslips(ctx, payroll.GenerateBatchRequest{
		PeriodStart: "2024-03-02",
		PeriodEnd:   "2024-03-03",
		EmployeeIDs: []string{emp.ID, emp.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Generated)
	assert.Equal(t, []payroll.SkippedPayslip{{EmployeeID: emp.ID, Reason: payroll.SkipReasonNoWorkingDays}}, resp.Skipped)

	_, err = f.svc.GeneratePayslips(ctx, payroll.GenerateBatchRequest{
		PeriodStart: "2024-03-01",
		PeriodEnd:   "2024-03-31",
		EmployeeIDs: []string{"missing"},
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestListPayslips(t *testing.T) {
	f := newPayrollFixture(t)
	ctx := context.Background()

	a := f.hire(t, "EMP-001", "50000")
	b := f.hire(t, "EMP-002", "40000")
	for _, id := range []string{a.ID, b.ID} {
		_, err := f.svc.GeneratePayslip(ctx, march(id))
		require.NoError(t, err)
	}
	_, err := f.svc.GeneratePayslip(ctx, payroll.GeneratePayslipRequest{EmployeeID: a.ID, PeriodStart: "2024-02-01", PeriodEnd: "2024-02-29"})
	require.NoError(t, err)

	month := 3
	resp, err := f.svc.ListPayslips(ctx, payroll.PayslipFilter{Month: &month})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)

	resp, err = f.svc.ListPayslips(ctx, payroll.PayslipFilter{EmployeeID: &a.ID, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2024-03-01", resp.Data[0].PeriodStart)

	bad := 13
	_, err = f.svc.ListPayslips(ctx, payroll.PayslipFilter{Month: &bad})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestSkipReason(t *testing.T) {
	tests := []struct {
		err  error
		want payroll.SkipReason
		ok   bool
	}{
		{payroll.ErrDuplicatePayslip, payroll.SkipReasonDuplicate, true},
		{salary.ErrNoActiveStructure, payroll.SkipReasonNoStructure, true},
		{payroll.ErrNoWorkingDays, payroll.SkipReasonNoWorkingDays, true},
		{payroll.ErrNegativeWage, payroll.SkipReasonInvalidPayroll, true},
		{errors.New("connection refused"), "", false},
	}
	for _, tt := range tests {
		got, ok := skipReason(tt.err)
		assert.Equal(t, tt.ok, ok, tt.err.Error())
		assert.Equal(t, tt.want, got)
	}
}
