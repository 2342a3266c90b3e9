package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-payroll-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/payrollxlsx"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/payslippdf"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-payroll-go/internal/service/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
	salaryService "github.com/cmlabs-hris/hris-payroll-go/internal/service/salary"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel, "hris-payroll", version, cfg.App.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, postgresql.Migrations()); err != nil {
		log.Error("Error applying migrations", "error", err)
		os.Exit(1)
	}

	policy, err := cfg.AttendancePolicy()
	if err != nil {
		log.Error("Invalid attendance policy", "error", err)
		os.Exit(1)
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	templateRepo := postgresql.NewSalaryTemplateRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	accrualCalculator := leave.NewAccrualCalculator(time.Now)
	balanceService := leave.NewBalanceService(leaveBalanceRepo, accrualCalculator)
	requestService := leave.NewRequestService(transactor, leaveTypeRepo, leaveRequestRepo, employeeRepo, balanceService, time.Now)
	leaveSvc := leave.NewLeaveService(transactor, leaveTypeRepo, leaveRequestRepo, employeeRepo, balanceService, requestService)
	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, employeeRepo, leaveSvc, policy, time.Now)
	salarySvc := salaryService.NewSalaryService(templateRepo, structureRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		payslipRepo,
		employeeRepo,
		templateRepo,
		salarySvc,
		attendanceSvc,
		payrollService.NewCalculator(cfg.Payroll.RoundingScale),
		cfg.Payroll.BatchConcurrency,
		time.Now,
	)

	scheduler := cron.NewScheduler()
	if cfg.Leave.ProvisionInterval > 0 {
		cron.NewLeaveJobs(employeeRepo, leaveSvc, time.Now).RegisterJobs(scheduler, cfg.Leave.ProvisionInterval)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	renderer := payslippdf.NewRenderer("HRIS Payroll", cfg.Payroll.Currency)

	router := appHTTP.NewRouter(
		log,
		cfg.CORS.AllowedOrigins,
		JWTService,
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewSalaryHandler(salarySvc, payrollSvc),
		appHTTP.NewPayrollHandler(payrollSvc, renderer, payrollxlsx.NewExporter(cfg.Payroll.Currency)),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
	log.Info("Server stopped")
}
