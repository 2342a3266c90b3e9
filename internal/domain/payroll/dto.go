package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxPeriodDays bounds the span of a single pay period.
const MaxPeriodDays = 31

// ========== PREVIEW DTOs ==========

// PreviewRequest computes a breakdown without persisting anything. With an
// EmployeeID the structure in force on AsOf is used, otherwise the ad-hoc
// structure given by TemplateID and MonthlyWage.
type PreviewRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	AsOf       string `json:"as_of,omitempty"`

	TemplateID              string           `json:"template_id,omitempty"`
	MonthlyWage             *decimal.Decimal `json:"monthly_wage,omitempty"`
	PerformanceBonusPercent *decimal.Decimal `json:"performance_bonus_percent,omitempty"`
	FixedAllowance          *decimal.Decimal `json:"fixed_allowance,omitempty"`
	OtherDeductions         *decimal.Decimal `json:"other_deductions,omitempty"`

	// Optional proration inputs
	WorkingDays *int             `json:"working_days,omitempty"`
	DaysWorked  *decimal.Decimal `json:"days_worked,omitempty"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		if validator.IsEmpty(r.TemplateID) {
			errs.Add("template_id", "template_id is required when employee_id is empty")
		}
		if r.MonthlyWage == nil {
			errs.Add("monthly_wage", "monthly_wage is required when employee_id is empty")
		}
	} else if r.AsOf != "" {
		if _, ok := validator.IsValidDate(r.AsOf); !ok {
			errs.Add("as_of", "as_of must be in YYYY-MM-DD format")
		}
	}

	if r.MonthlyWage != nil && !validator.MaxScale(*r.MonthlyWage, validator.AmountScale) {
		errs.Add("monthly_wage", "monthly_wage must have at most 2 decimal places")
	}
	if r.PerformanceBonusPercent != nil {
		if !validator.IsValidPercent(*r.PerformanceBonusPercent) {
			errs.Add("performance_bonus_percent", "performance_bonus_percent must be between 0 and 100")
		} else if !validator.MaxScale(*r.PerformanceBonusPercent, validator.AmountScale) {
			errs.Add("performance_bonus_percent", "performance_bonus_percent must have at most 2 decimal places")
		}
	}
	for _, a := range []struct {
		field string
		value *decimal.Decimal
	}{
		{"fixed_allowance", r.FixedAllowance},
		{"other_deductions", r.OtherDeductions},
	} {
		if a.value == nil {
			continue
		}
		if a.value.IsNegative() {
			errs.Add(a.field, a.field+" must be non-negative")
		} else if !validator.MaxScale(*a.value, validator.AmountScale) {
			errs.Add(a.field, a.field+" must have at most 2 decimal places")
		}
	}

	if (r.WorkingDays == nil) != (r.DaysWorked == nil) {
		errs.Add("days_worked", "working_days and days_worked must be provided together")
	}
	if r.WorkingDays != nil && *r.WorkingDays < 0 {
		errs.Add("working_days", "working_days must be non-negative")
	}
	if r.DaysWorked != nil && r.DaysWorked.IsNegative() {
		errs.Add("days_worked", "days_worked must be non-negative")
	}

	return errs.Err()
}

type BreakdownResponse struct {
	MonthlyWage       decimal.Decimal `json:"monthly_wage"`
	Basic             decimal.Decimal `json:"basic"`
	HRA               decimal.Decimal `json:"hra"`
	LTA               decimal.Decimal `json:"lta"`
	Bonus             decimal.Decimal `json:"performance_bonus"`
	StandardAllowance decimal.Decimal `json:"standard_allowance"`
	FixedAllowance    decimal.Decimal `json:"fixed_allowance"`
	Gross             decimal.Decimal `json:"gross"`
	PFEmployee        decimal.Decimal `json:"pf_employee"`
	PFEmployer        decimal.Decimal `json:"pf_employer"`
	ProfessionalTax   decimal.Decimal `json:"professional_tax"`
	OtherDeductions   decimal.Decimal `json:"other_deductions"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	Net               decimal.Decimal `json:"net"`

	WorkingDays *int             `json:"working_days,omitempty"`
	DaysWorked  *decimal.Decimal `json:"days_worked,omitempty"`
	ProratedNet *decimal.Decimal `json:"prorated_net,omitempty"`
}

func ToBreakdownResponse(wage decimal.Decimal, b Breakdown) BreakdownResponse {
	return BreakdownResponse{
		MonthlyWage:       wage,
		Basic:             b.Basic,
		HRA:               b.HRA,
		LTA:               b.LTA,
		Bonus:             b.Bonus,
		StandardAllowance: b.StandardAllowance,
		FixedAllowance:    b.FixedAllowance,
		Gross:             b.Gross,
		PFEmployee:        b.PFEmployee,
		PFEmployer:        b.PFEmployer,
		ProfessionalTax:   b.ProfessionalTax,
		OtherDeductions:   b.OtherDeductions,
		TotalDeductions:   b.TotalDeductions,
		Net:               b.Net,
	}
}

// ========== PAYSLIP DTOs ==========

type GeneratePayslipRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r *GeneratePayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	validatePeriod(&errs, r.PeriodStart, r.PeriodEnd)

	return errs.Err()
}

type GenerateBatchRequest struct {
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

func (r *GenerateBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	validatePeriod(&errs, r.PeriodStart, r.PeriodEnd)
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs.Add("employee_ids", "employee_ids must not contain empty values")
			break
		}
	}

	return errs.Err()
}

func validatePeriod(errs *validator.ValidationErrors, startStr, endStr string) {
	start, startOK := validator.IsValidDate(startStr)
	if !startOK {
		errs.Add("period_start", "period_start must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(endStr)
	if !endOK {
		errs.Add("period_end", "period_end must be in YYYY-MM-DD format")
	}
	if startOK && endOK {
		if end.Before(start) {
			errs.Add("period_end", "period_end must not be before period_start")
		} else if end.Sub(start) >= MaxPeriodDays*24*time.Hour {
			errs.Add("period_end", "pay period must not exceed 31 days")
		}
	}
}

type SkipReason string

const (
	SkipReasonDuplicate      SkipReason = "payslip_already_processed"
	SkipReasonNoStructure    SkipReason = "no_active_salary_structure"
	SkipReasonNoWorkingDays  SkipReason = "no_working_days"
	SkipReasonInvalidPayroll SkipReason = "invalid_salary_configuration"
)

type SkippedPayslip struct {
	EmployeeID string     `json:"employee_id"`
	Reason     SkipReason `json:"reason"`
}

type GenerateBatchResponse struct {
	Generated []PayslipResponse `json:"generated"`
	Skipped   []SkippedPayslip  `json:"skipped"`
}

type PayslipFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Status     *string `json:"status,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *PayslipFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 9999) {
		errs.Add("year", "year must be between 2000 and 9999")
	}
	if f.Status != nil && !PayslipStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be one of draft, processed, paid")
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	return errs.Err()
}

type PayslipResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	PeriodStart  string  `json:"period_start"`
	PeriodEnd    string  `json:"period_end"`
	StructureID  string  `json:"structure_id"`
	TemplateName string  `json:"template_name"`

	BreakdownResponse

	UnpaidLeaveDeduction decimal.Decimal `json:"unpaid_leave_deduction"`

	Status      string     `json:"status"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	PaymentDate *string    `json:"payment_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func ToPayslipResponse(p Payslip) PayslipResponse {
	b := ToBreakdownResponse(p.MonthlyWage, p.Breakdown)
	workingDays, daysWorked, proratedNet := p.WorkingDays, p.DaysWorked, p.ProratedNet
	b.WorkingDays = &workingDays
	b.DaysWorked = &daysWorked
	b.ProratedNet = &proratedNet

	resp := PayslipResponse{
		ID:                   p.ID,
		EmployeeID:           p.EmployeeID,
		EmployeeName:         p.EmployeeName,
		EmployeeCode:         p.EmployeeCode,
		PeriodStart:          p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:            p.PeriodEnd.Format("2006-01-02"),
		StructureID:          p.StructureID,
		TemplateName:         p.TemplateName,
		BreakdownResponse:    b,
		UnpaidLeaveDeduction: p.UnpaidLeaveDeduction,
		Status:               string(p.Status),
		ProcessedAt:          p.ProcessedAt,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if p.PaymentDate != nil {
		d := p.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &d
	}
	return resp
}

type ListPayslipResponse struct {
	Data       []PayslipResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
