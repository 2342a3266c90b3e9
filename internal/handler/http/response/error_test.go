package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden},
		{"self approval", leave.ErrSelfApproval, http.StatusForbidden},
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("failed to get employee: %w", employee.ErrEmployeeNotFound), http.StatusNotFound},
		{"already checked in", attendance.ErrAlreadyCheckedIn, http.StatusConflict},
		{"not checked in", attendance.ErrNotCheckedIn, http.StatusBadRequest},
		{"insufficient balance", leave.ErrInsufficientBalance, http.StatusBadRequest},
		{"overlapping leave", leave.ErrOverlappingRequest, http.StatusConflict},
		{"duplicate effective date", salary.ErrDuplicateEffectiveDate, http.StatusConflict},
		{"no active structure", salary.ErrNoActiveStructure, http.StatusUnprocessableEntity},
		{"negative wage", payroll.ErrNegativeWage, http.StatusUnprocessableEntity},
		{"duplicate payslip", payroll.ErrDuplicatePayslip, http.StatusConflict},
		{"paid payslip", payroll.ErrImmutablePayslip, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add("period_start", "period_start must be in YYYY-MM-DD format")
	errs.Add("employee_id", "employee_id is required")

	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("generate: %w", errs.Err()))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "employee_id is required", resp.Error.Details["employee_id"])
	assert.Len(t, resp.Error.Details, 2)
}

func TestHandleError_IntegrityCode(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, payroll.ErrInvalidTemplate)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTEGRITY_ERROR", resp.Error.Code)
}
