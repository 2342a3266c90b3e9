package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEmployee(t *testing.T) {
	svc := NewEmployeeService(memory.NewEmployeeRepository())
	ctx := context.Background()

	resp, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: " EMP-001 ",
		FullName:     "Asha Rao",
		Email:        "Asha@Example.com",
		HireDate:     "2023-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP-001", resp.EmployeeCode)
	assert.Equal(t, "asha@example.com", resp.Email)
	assert.Equal(t, "full_time", resp.EmploymentType)
	assert.True(t, resp.IsActive)

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
			EmployeeCode: "EMP-001",
			FullName:     "Someone Else",
			Email:        "other@example.com",
			HireDate:     "2023-01-02",
		})
		assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
			EmployeeCode:   "EMP-002",
			Email:          "not-an-email",
			HireDate:       "02/01/2023",
			EmploymentType: "freelance",
		})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		fields := verrs.ToMap()
		assert.Contains(t, fields, "full_name")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "hire_date")
		assert.Contains(t, fields, "employment_type")
	})
}

func TestDeactivateEmployee(t *testing.T) {
	repo := memory.NewEmployeeRepository()
	svc := NewEmployeeService(repo)
	ctx := context.Background()

	for _, code := range []string{"EMP-001", "EMP-002"} {
		_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
			EmployeeCode: code,
			FullName:     "Employee " + code,
			Email:        code + "@example.com",
			HireDate:     "2023-01-02",
		})
		require.NoError(t, err)
	}

	all, err := svc.ListEmployees(ctx, employee.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	resp, err := svc.DeactivateEmployee(ctx, all[0].ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	active, err := svc.ListEmployees(ctx, employee.EmployeeFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "EMP-002", active[0].EmployeeCode)

	_, err = svc.DeactivateEmployee(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
