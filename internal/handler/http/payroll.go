package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// PayslipRenderer writes a printable payslip document.
type PayslipRenderer interface {
	Render(w io.Writer, p payroll.PayslipResponse) error
}

// RegisterWriter writes a payroll register covering many payslips.
type RegisterWriter interface {
	Write(w io.Writer, title string, payslips []payroll.PayslipResponse) error
}

// exportPageSize is the page size used to collect payslips for an export.
const exportPageSize = 100

type PayrollHandler interface {
	GeneratePayslip(w http.ResponseWriter, r *http.Request)
	GeneratePayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	ProcessPayslip(w http.ResponseWriter, r *http.Request)
	MarkPayslipPaid(w http.ResponseWriter, r *http.Request)
	DeletePayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
	ExportPayslips(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	renderer       PayslipRenderer
	exporter       RegisterWriter
}

func NewPayrollHandler(payrollService payroll.PayrollService, renderer PayslipRenderer, exporter RegisterWriter) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService, renderer: renderer, exporter: exporter}
}

func (h *payrollHandlerImpl) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayslipRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GeneratePayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payslip generated", result)
}

func (h *payrollHandlerImpl) GeneratePayslips(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateBatchRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.GeneratePayslips(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("%d generated, %d skipped", len(result.Generated), len(result.Skipped)), result)
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	result, ok := h.accessiblePayslip(w, r)
	if !ok {
		return
	}

	response.Success(w, result)
}

// ListPayslips lists payslips. Employees only ever see their own.
func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	filter, err := payslipFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.ListPayslips(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.TotalCount + int64(result.Limit) - 1) / int64(result.Limit))
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: totalPages,
	})
}

// ExportPayslips writes every payslip matching the list filters as an XLSX
// payroll register. Paging parameters are ignored.
func (h *payrollHandlerImpl) ExportPayslips(w http.ResponseWriter, r *http.Request) {
	filter, err := payslipFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var payslips []payroll.PayslipResponse
	filter.Limit = exportPageSize
	for filter.Page = 1; ; filter.Page++ {
		result, err := h.payrollService.ListPayslips(r.Context(), filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		payslips = append(payslips, result.Data...)
		if len(result.Data) < exportPageSize || int64(len(payslips)) >= result.TotalCount {
			break
		}
	}

	title := "Payroll Register"
	if filter.Year != nil && filter.Month != nil {
		title = fmt.Sprintf("Payroll Register %04d-%02d", *filter.Year, *filter.Month)
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, title, payslips); err != nil {
		slog.Error("Failed to export payroll register", "count", len(payslips), "error", err)
		response.InternalServerError(w, "Failed to export payroll register")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll-register.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// payslipFilter reads the list filters from the query string. Employees are
// pinned to their own payslips.
func payslipFilter(r *http.Request) (payroll.PayslipFilter, error) {
	claims, err := callerClaims(r)
	if err != nil {
		return payroll.PayslipFilter{}, err
	}

	query := r.URL.Query()
	filter := payroll.PayslipFilter{Page: 1, Limit: 20}

	if employeeID := query.Get("employee_id"); employeeID != "" {
		if !claims.CanAccess(employeeID) {
			return payroll.PayslipFilter{}, auth.ErrForbidden
		}
		filter.EmployeeID = &employeeID
	} else if !claims.Role.IsManager() {
		filter.EmployeeID = &claims.EmployeeID
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}

	var errs validator.ValidationErrors
	for key, target := range map[string]**int{"year": &filter.Year, "month": &filter.Month} {
		v, err := queryInt(r, key)
		if err != nil {
			errs.Add(key, key+" must be a number")
			continue
		}
		*target = v
	}
	for key, target := range map[string]*int{"page": &filter.Page, "limit": &filter.Limit} {
		v, err := queryInt(r, key)
		if err != nil {
			errs.Add(key, key+" must be a number")
			continue
		}
		if v != nil {
			*target = *v
		}
	}
	if err := errs.Err(); err != nil {
		return payroll.PayslipFilter{}, err
	}
	return filter, nil
}

func (h *payrollHandlerImpl) ProcessPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ProcessPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip processed", result)
}

func (h *payrollHandlerImpl) MarkPayslipPaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.MarkPayslipPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip marked as paid", result)
}

func (h *payrollHandlerImpl) DeletePayslip(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeletePayslip(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip deleted", nil)
}

// DownloadPayslip streams the payslip as a PDF attachment.
func (h *payrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	result, ok := h.accessiblePayslip(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, result); err != nil {
		slog.Error("Failed to render payslip", "payslip_id", result.ID, "error", err)
		response.InternalServerError(w, "Failed to render payslip")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%s-%s.pdf"`, result.EmployeeID, result.PeriodStart))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *payrollHandlerImpl) accessiblePayslip(w http.ResponseWriter, r *http.Request) (payroll.PayslipResponse, bool) {
	claims, err := callerClaims(r)
	if err != nil {
		response.HandleError(w, err)
		return payroll.PayslipResponse{}, false
	}

	result, err := h.payrollService.GetPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return payroll.PayslipResponse{}, false
	}
	if !claims.CanAccess(result.EmployeeID) {
		response.HandleError(w, auth.ErrForbidden)
		return payroll.PayslipResponse{}, false
	}
	return result, true
}
