package salary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStructureRepository lets a test replace single methods.
type fakeStructureRepository struct {
	salary.StructureRepository
	getEffectiveFn func(ctx context.Context, employeeID string, asOf time.Time) (salary.Structure, error)
}

func (f *fakeStructureRepository) GetEffective(ctx context.Context, employeeID string, asOf time.Time) (salary.Structure, error) {
	if f.getEffectiveFn != nil {
		return f.getEffectiveFn(ctx, employeeID, asOf)
	}
	return salary.Structure{}, salary.ErrNoActiveStructure
}

type salaryFixture struct {
	svc        salary.SalaryService
	templates  *memory.TemplateRepository
	structures *memory.StructureRepository
	employee   employee.Employee
}

func newSalaryFixture(t *testing.T) salaryFixture {
	t.Helper()

	employees := memory.NewEmployeeRepository()
	emp, err := employees.Create(context.Background(), employee.Employee{
		EmployeeCode:   "EMP-001",
		FullName:       "Asha Rao",
		Email:          "asha@example.com",
		HireDate:       time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		EmploymentType: employee.EmploymentTypeFullTime,
		IsActive:       true,
	})
	require.NoError(t, err)

	templates := memory.NewTemplateRepository()
	structures := memory.NewStructureRepository()
	return salaryFixture{
		svc:        NewSalaryService(templates, structures, employees),
		templates:  templates,
		structures: structures,
		employee:   emp,
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateTemplate_AppliesDefaults(t *testing.T) {
	f := newSalaryFixture(t)

	resp, err := f.svc.CreateTemplate(context.Background(), salary.CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.BasicPercent.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.HRAPercent.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.LTAPercent.Equal(decimal.RequireFromString("8.33")))
	assert.True(t, resp.PFEmployeePercent.Equal(decimal.NewFromInt(12)))
	assert.True(t, resp.PFEmployerPercent.Equal(decimal.NewFromInt(12)))
	assert.True(t, resp.StandardAllowance.IsZero())
	assert.True(t, resp.ProfessionalTax.Equal(decimal.NewFromInt(200)))
}

func TestCreateTemplate_NameConflict(t *testing.T) {
	f := newSalaryFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)

	_, err = f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "standard"})
	assert.ErrorIs(t, err, salary.ErrTemplateNameExists)
}

func TestCreateTemplate_Validation(t *testing.T) {
	f := newSalaryFixture(t)

	_, err := f.svc.CreateTemplate(context.Background(), salary.CreateTemplateRequest{
		Name:            "Broken",
		BasicPercent:    dec("120"),
		ProfessionalTax: dec("-1"),
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "basic_percent")
	assert.Contains(t, fields, "professional_tax")
}

func TestValidation_StoredPrecision(t *testing.T) {
	f := newSalaryFixture(t)
	ctx := context.Background()

	tmpl, err := f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "Standard", LTAPercent: dec("8.33")})
	require.NoError(t, err)

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"template percent", func() error {
			_, err := f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "Fine", LTAPercent: dec("8.333")})
			return err
		}, "lta_percent"},
		{"template amount", func() error {
			_, err := f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "Fine", ProfessionalTax: dec("200.005")})
			return err
		}, "professional_tax"},
		{"template update", func() error {
			_, err := f.svc.UpdateTemplate(ctx, salary.UpdateTemplateRequest{ID: tmpl.ID, PFEmployeePercent: dec("12.125")})
			return err
		}, "pf_employee_percent"},
		{"structure wage", func() error {
			_, err := f.svc.CreateStructure(ctx, salary.CreateStructureRequest{
				EmployeeID:    f.employee.ID,
				TemplateID:    tmpl.ID,
				MonthlyWage:   decimal.RequireFromString("50000.555"),
				EffectiveFrom: "2024-01-01",
			})
			return err
		}, "monthly_wage"},
		{"structure bonus", func() error {
			_, err := f.svc.CreateStructure(ctx, salary.CreateStructureRequest{
				EmployeeID:              f.employee.ID,
				TemplateID:              tmpl.ID,
				MonthlyWage:             decimal.NewFromInt(50000),
				PerformanceBonusPercent: dec("10.001"),
				EffectiveFrom:           "2024-01-01",
			})
			return err
		}, "performance_bonus_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "err = %v", err)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}

	structures, err := f.svc.ListStructures(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Empty(t, structures)
}

func TestUpdateTemplate(t *testing.T) {
	f := newSalaryFixture(t)
	ctx := context.Background()

	a, err := f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "A"})
	require.NoError(t, err)
	_, err = f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "B"})
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		resp, err := f.svc.UpdateTemplate(ctx, salary.UpdateTemplateRequest{ID: a.ID, HRAPercent: dec("40")})
		require.NoError(t, err)
		assert.True(t, resp.HRAPercent.Equal(decimal.NewFromInt(40)))
		assert.True(t, resp.BasicPercent.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, "A", resp.Name)
	})

	t.Run("renaming onto another template conflicts", func(t *testing.T) {
		name := "B"
		_, err := f.svc.UpdateTemplate(ctx, salary.UpdateTemplateRequest{ID: a.ID, Name: &name})
		assert.ErrorIs(t, err, salary.ErrTemplateNameExists)
	})

	t.Run("unknown template", func(t *testing.T) {
		_, err := f.svc.UpdateTemplate(ctx, salary.UpdateTemplateRequest{ID: "missing"})
		assert.ErrorIs(t, err, salary.ErrTemplateNotFound)
	})
}

func TestCreateStructure(t *testing.T) {
	f := newSalaryFixture(t)
	ctx := context.Background()

	tmpl, err := f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)

	req := salary.CreateStructureRequest{
		EmployeeID:    f.employee.ID,
		TemplateID:    tmpl.ID,
		MonthlyWage:   decimal.NewFromInt(50000),
		EffectiveFrom: "2024-01-01",
	}

	resp, err := f.svc.CreateStructure(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", resp.EffectiveFrom)
	assert.True(t, resp.PerformanceBonusPercent.IsZero())

	t.Run("same effective date is rejected", func(t *testing.T) {
		_, err := f.svc.CreateStructure(ctx, req)
		assert.ErrorIs(t, err, salary.ErrDuplicateEffectiveDate)
	})

	t.Run("unknown employee", func(t *testing.T) {
		bad := req
		bad.EmployeeID = "missing"
		_, err := f.svc.CreateStructure(ctx, bad)
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("unknown template", func(t *testing.T) {
		bad := req
		bad.TemplateID = "missing"
		bad.EffectiveFrom = "2024-02-01"
		_, err := f.svc.CreateStructure(ctx, bad)
		assert.ErrorIs(t, err, salary.ErrTemplateNotFound)
	})

	t.Run("non-positive wage", func(t *testing.T) {
		bad := req
		bad.MonthlyWage = decimal.Zero
		bad.EffectiveFrom = "2024-03-01"
		_, err := f.svc.CreateStructure(ctx, bad)
		var verrs validator.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})
}

func TestResolve_PicksLatestEffectiveStructure(t *testing.T) {
	f := newSalaryFixture(t)
	ctx := context.Background()

	tmpl, err := f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)

	for _, s := range []struct {
		from string
		wage int64
	}{
		{"2024-01-01", 50000},
		{"2024-06-01", 60000},
	} {
		_, err := f.svc.CreateStructure(ctx, salary.CreateStructureRequest{
			EmployeeID:              f.employee.ID,
			TemplateID:              tmpl.ID,
			MonthlyWage:             decimal.NewFromInt(s.wage),
			PerformanceBonusPercent: dec("10"),
			EffectiveFrom:           s.from,
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		asOf     time.Time
		wantWage int64
		wantErr  error
	}{
		{"before any structure", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), 0, salary.ErrNoActiveStructure},
		{"on first effective date", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 50000, nil},
		{"between structures", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 50000, nil},
		{"time of day is ignored", time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC), 50000, nil},
		{"on second effective date", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 60000, nil},
		{"after second structure", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 60000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := f.svc.Resolve(ctx, f.employee.ID, tt.asOf)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, resolved.MonthlyWage.Equal(decimal.NewFromInt(tt.wantWage)))
			assert.Equal(t, "Standard", resolved.TemplateName)
			assert.True(t, resolved.BonusPercent.Equal(decimal.NewFromInt(10)))
			assert.True(t, resolved.BasicPercent.Equal(decimal.NewFromInt(50)))
		})
	}
}

func TestResolve_UsesCurrentTemplateValues(t *testing.T) {
	f := newSalaryFixture(t)
	ctx := context.Background()

	tmpl, err := f.svc.CreateTemplate(ctx, salary.CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)
	_, err = f.svc.CreateStructure(ctx, salary.CreateStructureRequest{
		EmployeeID:    f.employee.ID,
		TemplateID:    tmpl.ID,
		MonthlyWage:   decimal.NewFromInt(50000),
		EffectiveFrom: "2024-01-01",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateTemplate(ctx, salary.UpdateTemplateRequest{ID: tmpl.ID, ProfessionalTax: dec("250")})
	require.NoError(t, err)

	resolved, err := f.svc.Resolve(ctx, f.employee.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, resolved.ProfessionalTax.Equal(decimal.NewFromInt(250)))
}

func TestResolve_RepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewSalaryService(memory.NewTemplateRepository(), &fakeStructureRepository{
		getEffectiveFn: func(ctx context.Context, employeeID string, asOf time.Time) (salary.Structure, error) {
			return salary.Structure{}, boom
		},
	}, memory.NewEmployeeRepository())

	_, err := svc.Resolve(context.Background(), "emp-1", time.Now())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, salary.ErrNoActiveStructure)
}
