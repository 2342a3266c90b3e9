package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
	"github.com/go-chi/chi/v5"
)

type SalaryHandler interface {
	// Templates
	CreateTemplate(w http.ResponseWriter, r *http.Request)
	UpdateTemplate(w http.ResponseWriter, r *http.Request)
	GetTemplate(w http.ResponseWriter, r *http.Request)
	ListTemplates(w http.ResponseWriter, r *http.Request)

	// Structures
	CreateStructure(w http.ResponseWriter, r *http.Request)
	ListStructures(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)

	Preview(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService  salary.SalaryService
	payrollService payroll.PayrollService
	now            func() time.Time
}

func NewSalaryHandler(salaryService salary.SalaryService, payrollService payroll.PayrollService) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService, payrollService: payrollService, now: time.Now}
}

func (h *salaryHandlerImpl) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateTemplateRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.CreateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary template created", result)
}

func (h *salaryHandlerImpl) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdateTemplateRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.salaryService.UpdateTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary template updated", result)
}

func (h *salaryHandlerImpl) GetTemplate(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) ListTemplates(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.ListTemplates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) CreateStructure(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateStructureRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.salaryService.CreateStructure(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary structure created", result)
}

func (h *salaryHandlerImpl) ListStructures(w http.ResponseWriter, r *http.Request) {
	employeeID, _, err := targetEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.ListStructures(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Resolve returns the merged structure in force on as_of, today by default.
func (h *salaryHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	employeeID, _, err := targetEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := salary.ResolveRequest{EmployeeID: employeeID, AsOf: r.URL.Query().Get("as_of")}
	if req.AsOf == "" {
		req.AsOf = calendar.Date(h.now()).Format(calendar.DateLayout)
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	asOf, _ := calendar.ParseDate(req.AsOf)

	resolved, err := h.salaryService.Resolve(r.Context(), employeeID, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salary.ToResolvedResponse(resolved))
}

func (h *salaryHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req payroll.PreviewRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
