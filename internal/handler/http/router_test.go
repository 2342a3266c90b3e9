package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/payrollxlsx"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/payslippdf"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-payroll-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-payroll-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	salaryService "github.com/cmlabs-hris/hris-payroll-go/internal/service/salary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
	} `json:"meta"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
	jwt    jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	employees := memory.NewEmployeeRepository()
	attendanceRepo := memory.NewAttendanceRepository()
	leaveTypes := memory.NewLeaveTypeRepository()
	leaveBalances := memory.NewLeaveBalanceRepository()
	leaveRequests := memory.NewLeaveRequestRepository()
	templates := memory.NewTemplateRepository()
	structures := memory.NewStructureRepository()
	payslips := memory.NewPayslipRepository()
	transactor := database.NewLocalTransactor()

	balances := leaveService.NewBalanceService(leaveBalances, leaveService.NewAccrualCalculator(time.Now))
	requests := leaveService.NewRequestService(transactor, leaveTypes, leaveRequests, employees, balances, time.Now)
	leaves := leaveService.NewLeaveService(transactor, leaveTypes, leaveRequests, employees, balances, requests)
	attendances := attendanceService.NewAttendanceService(transactor, attendanceRepo, employees, leaves, attendance.DefaultPolicy(), time.Now)
	salaries := salaryService.NewSalaryService(templates, structures, employees)
	payrolls := payrollService.NewPayrollService(transactor, payslips, employees, templates, salaries, attendances,
		payrollService.NewCalculator(0), 2, time.Now)

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))

	router := NewRouter(
		log,
		[]string{"http://localhost:3000"},
		jwtService,
		NewEmployeeHandler(employeeService.NewEmployeeService(employees)),
		NewAttendanceHandler(attendances),
		NewLeaveHandler(leaves),
		NewSalaryHandler(salaries, payrolls),
		NewPayrollHandler(payrolls, payslippdf.NewRenderer("Test Company", "INR"), payrollxlsx.NewExporter("INR")),
	)

	return &testServer{t: t, router: router, jwt: jwtService}
}

func (s *testServer) token(employeeID string, role auth.Role) string {
	s.t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(employeeID, role)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func (s *testServer) createEmployee(hrToken, code, email string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/employees", hrToken, map[string]string{
		"employee_code": code,
		"full_name":     "Employee " + code,
		"email":         email,
		"hire_date":     "2024-01-01",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var emp struct {
		ID string `json:"id"`
	}
	decode(s.t, rec, &emp)
	require.NotEmpty(s.t, emp.ID)
	return emp.ID
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t)

	t.Run("heartbeat is public", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/leave/types", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewJWTService("another-secret", "1h")
		token, _, err := other.GenerateAccessToken("emp-1", auth.RoleHR)
		require.NoError(t, err)

		rec := s.do(http.MethodGet, "/api/v1/leave/types", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/leave/types", s.token("emp-1", auth.RoleEmployee), nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestRouter_RoleGuards(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token("emp-1", auth.RoleEmployee)
	hrToken := s.token("hr-1", auth.RoleHR)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
	}{
		{"employee lists employees", http.MethodGet, "/api/v1/employees", employeeToken, nil},
		{"employee generates payslip", http.MethodPost, "/api/v1/payslips/generate", employeeToken, map[string]string{}},
		{"employee approves leave", http.MethodPost, "/api/v1/leave/requests/some-id/approve", employeeToken, nil},
		{"hr creates leave type", http.MethodPost, "/api/v1/leave/types", hrToken, map[string]string{"name": "Annual"}},
		{"hr creates template", http.MethodPost, "/api/v1/salary/templates", hrToken, map[string]string{"name": "Standard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_Employees(t *testing.T) {
	s := newTestServer(t)
	hrToken := s.token("hr-1", auth.RoleHR)

	id := s.createEmployee(hrToken, "EMP001", "alice@example.com")

	t.Run("duplicate code conflicts", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/employees", hrToken, map[string]string{
			"employee_code": "EMP001",
			"full_name":     "Someone Else",
			"email":         "other@example.com",
			"hire_date":     "2024-01-01",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid body reports every field", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/employees", hrToken, map[string]string{"email": "nope"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		resp := decode(t, rec, nil)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Details, "employee_code")
		assert.Contains(t, resp.Error.Details, "email")
		assert.Contains(t, resp.Error.Details, "hire_date")
	})

	t.Run("employee reads own record only", func(t *testing.T) {
		own := s.do(http.MethodGet, "/api/v1/employees/"+id, s.token(id, auth.RoleEmployee), nil)
		assert.Equal(t, http.StatusOK, own.Code)

		other := s.do(http.MethodGet, "/api/v1/employees/"+id, s.token("emp-2", auth.RoleEmployee), nil)
		assert.Equal(t, http.StatusForbidden, other.Code)
	})

	t.Run("unknown employee", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/employees/missing", hrToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_Attendance(t *testing.T) {
	s := newTestServer(t)
	id := s.createEmployee(s.token("hr-1", auth.RoleHR), "EMP001", "alice@example.com")
	token := s.token(id, auth.RoleEmployee)

	rec := s.do(http.MethodPost, "/api/v1/attendance/check-in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/attendance/check-in", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/attendance/check-out", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/attendance/check-out", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	t.Run("summary of another employee is forbidden", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/attendance/summary?employee_id=emp-2&from=2024-03-01&to=2024-03-31", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("future instant is rejected", func(t *testing.T) {
		other := s.createEmployee(s.token("hr-1", auth.RoleHR), "EMP002", "bob@example.com")
		at := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
		rec := s.do(http.MethodPost, "/api/v1/attendance/check-in", s.token(other, auth.RoleEmployee), map[string]string{"at": at})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	})

	t.Run("earlier date is rejected", func(t *testing.T) {
		other := s.createEmployee(s.token("hr-1", auth.RoleHR), "EMP003", "carol@example.com")
		at := time.Now().AddDate(0, 0, -2).UTC().Format(time.RFC3339)
		rec := s.do(http.MethodPost, "/api/v1/attendance/check-in", s.token(other, auth.RoleEmployee), map[string]string{"at": at})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	})
}

func TestRouter_PayrollFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.token("admin-1", auth.RoleAdmin)
	hrToken := s.token("hr-1", auth.RoleHR)

	id := s.createEmployee(hrToken, "EMP001", "alice@example.com")
	employeeToken := s.token(id, auth.RoleEmployee)

	rec := s.do(http.MethodPost, "/api/v1/salary/templates", adminToken, map[string]string{"name": "Standard"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var template struct {
		ID string `json:"id"`
	}
	decode(t, rec, &template)

	rec = s.do(http.MethodPost, "/api/v1/salary/structures", hrToken, map[string]string{
		"employee_id":    id,
		"template_id":    template.ID,
		"monthly_wage":   "50000",
		"effective_from": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("preview does not persist", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/salary/preview", hrToken, map[string]string{
			"template_id":  template.ID,
			"monthly_wage": "50000",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var breakdown map[string]interface{}
		decode(t, rec, &breakdown)
		assert.Equal(t, "25000", breakdown["basic"])
	})

	t.Run("resolve defaults to own structure", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/salary/resolve?as_of=2024-03-31", employeeToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	generate := map[string]string{
		"employee_id":  id,
		"period_start": "2024-03-01",
		"period_end":   "2024-03-31",
	}
	rec = s.do(http.MethodPost, "/api/v1/payslips/generate", hrToken, generate)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payslip struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		WorkingDays int    `json:"working_days"`
	}
	decode(t, rec, &payslip)
	assert.Equal(t, "draft", payslip.Status)
	assert.Equal(t, 21, payslip.WorkingDays)

	t.Run("employee sees only own payslips", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/payslips", employeeToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []map[string]interface{}
		resp := decode(t, rec, &list)
		require.Len(t, list, 1)
		assert.Equal(t, id, list[0]["employee_id"])
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.TotalItems)

		other := s.do(http.MethodGet, "/api/v1/payslips/"+payslip.ID, s.token("emp-2", auth.RoleEmployee), nil)
		assert.Equal(t, http.StatusForbidden, other.Code)

		filtered := s.do(http.MethodGet, "/api/v1/payslips?employee_id=someone-else", employeeToken, nil)
		assert.Equal(t, http.StatusForbidden, filtered.Code)

		empty := s.do(http.MethodGet, "/api/v1/payslips", s.token("emp-2", auth.RoleEmployee), nil)
		require.Equal(t, http.StatusOK, empty.Code)
		var none []map[string]interface{}
		decode(t, empty, &none)
		assert.Empty(t, none)
	})

	t.Run("pdf download", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/payslips/"+payslip.ID+"/pdf", employeeToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
	})

	t.Run("register export", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/v1/payslips/export?year=2024&month=3", hrToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll-register.xlsx")
		// XLSX files are zip archives.
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

		forbidden := s.do(http.MethodGet, "/api/v1/payslips/export", employeeToken, nil)
		assert.Equal(t, http.StatusForbidden, forbidden.Code)
	})

	t.Run("lifecycle", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/payslips/"+payslip.ID+"/mark-paid", hrToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

		rec = s.do(http.MethodPost, "/api/v1/payslips/"+payslip.ID+"/process", hrToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = s.do(http.MethodPost, "/api/v1/payslips/generate", hrToken, generate)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = s.do(http.MethodPost, "/api/v1/payslips/"+payslip.ID+"/mark-paid", hrToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = s.do(http.MethodDelete, "/api/v1/payslips/"+payslip.ID, hrToken, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("batch skips processed payslips", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/v1/payslips/generate-batch", hrToken, map[string]string{
			"period_start": "2024-03-01",
			"period_end":   "2024-03-31",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var batch struct {
			Generated []map[string]interface{} `json:"generated"`
			Skipped   []struct {
				EmployeeID string `json:"employee_id"`
				Reason     string `json:"reason"`
			} `json:"skipped"`
		}
		resp := decode(t, rec, &batch)
		assert.Equal(t, "0 generated, 1 skipped", resp.Message)
		require.Len(t, batch.Skipped, 1)
		assert.Equal(t, "payslip_already_processed", batch.Skipped[0].Reason)
	})
}
