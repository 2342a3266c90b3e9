package http

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	log *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	salaryHandler SalaryHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(log, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: logger.Schema,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Route("/employees", func(r chi.Router) {
			r.Get("/{id}", employeeHandler.GetEmployee)

			// HR only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Get("/", employeeHandler.ListEmployees)
				r.Post("/", employeeHandler.CreateEmployee)
				r.Post("/{id}/deactivate", employeeHandler.DeactivateEmployee)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", attendanceHandler.CheckIn)
			r.Post("/check-out", attendanceHandler.CheckOut)
			r.Get("/summary", attendanceHandler.GetSummary)
		})

		r.Route("/leave", func(r chi.Router) {
			r.Get("/types", leaveHandler.ListTypes)
			r.Get("/balances", leaveHandler.GetBalances)

			r.Route("/requests", func(r chi.Router) {
				r.Get("/", leaveHandler.ListRequests)
				r.Post("/", leaveHandler.CreateRequest)
				r.Get("/{id}", leaveHandler.GetRequest)
				r.Post("/{id}/cancel", leaveHandler.CancelRequest)

				// HR only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHR)
					r.Post("/{id}/approve", leaveHandler.ApproveRequest)
					r.Post("/{id}/reject", leaveHandler.RejectRequest)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/types", leaveHandler.CreateType)
			})
		})

		r.Route("/salary", func(r chi.Router) {
			r.Get("/structures", salaryHandler.ListStructures)
			r.Get("/resolve", salaryHandler.Resolve)

			// HR only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Get("/templates", salaryHandler.ListTemplates)
				r.Get("/templates/{id}", salaryHandler.GetTemplate)
				r.Post("/structures", salaryHandler.CreateStructure)
				r.Post("/preview", salaryHandler.Preview)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/templates", salaryHandler.CreateTemplate)
				r.Put("/templates/{id}", salaryHandler.UpdateTemplate)
			})
		})

		r.Route("/payslips", func(r chi.Router) {
			r.Get("/", payrollHandler.ListPayslips)
			r.Get("/{id}", payrollHandler.GetPayslip)
			r.Get("/{id}/pdf", payrollHandler.DownloadPayslip)

			// HR only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Get("/export", payrollHandler.ExportPayslips)
				r.Post("/generate", payrollHandler.GeneratePayslip)
				r.Post("/generate-batch", payrollHandler.GeneratePayslips)
				r.Post("/{id}/process", payrollHandler.ProcessPayslip)
				r.Post("/{id}/mark-paid", payrollHandler.MarkPayslipPaid)
				r.Delete("/{id}", payrollHandler.DeletePayslip)
			})
		})
	})

	return r
}
