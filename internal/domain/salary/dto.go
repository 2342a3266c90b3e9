package salary

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateTemplateRequest struct {
	Name              string           `json:"name"`
	BasicPercent      *decimal.Decimal `json:"basic_percent,omitempty"`
	HRAPercent        *decimal.Decimal `json:"hra_percent,omitempty"`
	LTAPercent        *decimal.Decimal `json:"lta_percent,omitempty"`
	PFEmployeePercent *decimal.Decimal `json:"pf_employee_percent,omitempty"`
	PFEmployerPercent *decimal.Decimal `json:"pf_employer_percent,omitempty"`
	StandardAllowance *decimal.Decimal `json:"standard_allowance,omitempty"`
	ProfessionalTax   *decimal.Decimal `json:"professional_tax,omitempty"`
}

func (r *CreateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}

	validateTemplateFields(&errs, r.BasicPercent, r.HRAPercent, r.LTAPercent, r.PFEmployeePercent,
		r.PFEmployerPercent, r.StandardAllowance, r.ProfessionalTax)

	return errs.Err()
}

// ToTemplate fills omitted fields with the template defaults.
func (r *CreateTemplateRequest) ToTemplate() Template {
	return Template{
		Name:              r.Name,
		BasicPercent:      valueOr(r.BasicPercent, DefaultBasicPercent),
		HRAPercent:        valueOr(r.HRAPercent, DefaultHRAPercent),
		LTAPercent:        valueOr(r.LTAPercent, DefaultLTAPercent),
		PFEmployeePercent: valueOr(r.PFEmployeePercent, DefaultPFEmployeePercent),
		PFEmployerPercent: valueOr(r.PFEmployerPercent, DefaultPFEmployerPercent),
		StandardAllowance: valueOr(r.StandardAllowance, DefaultStandardAllowance),
		ProfessionalTax:   valueOr(r.ProfessionalTax, DefaultProfessionalTax),
	}
}

type UpdateTemplateRequest struct {
	ID                string           `json:"-"`
	Name              *string          `json:"name,omitempty"`
	BasicPercent      *decimal.Decimal `json:"basic_percent,omitempty"`
	HRAPercent        *decimal.Decimal `json:"hra_percent,omitempty"`
	LTAPercent        *decimal.Decimal `json:"lta_percent,omitempty"`
	PFEmployeePercent *decimal.Decimal `json:"pf_employee_percent,omitempty"`
	PFEmployerPercent *decimal.Decimal `json:"pf_employer_percent,omitempty"`
	StandardAllowance *decimal.Decimal `json:"standard_allowance,omitempty"`
	ProfessionalTax   *decimal.Decimal `json:"professional_tax,omitempty"`
}

func (r *UpdateTemplateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if len(*r.Name) > 100 {
			errs.Add("name", "name must not exceed 100 characters")
		}
	}

	validateTemplateFields(&errs, r.BasicPercent, r.HRAPercent, r.LTAPercent, r.PFEmployeePercent,
		r.PFEmployerPercent, r.StandardAllowance, r.ProfessionalTax)

	return errs.Err()
}

// Apply copies the provided fields onto t.
func (r *UpdateTemplateRequest) Apply(t Template) Template {
	if r.Name != nil {
		t.Name = *r.Name
	}
	t.BasicPercent = valueOr(r.BasicPercent, t.BasicPercent)
	t.HRAPercent = valueOr(r.HRAPercent, t.HRAPercent)
	t.LTAPercent = valueOr(r.LTAPercent, t.LTAPercent)
	t.PFEmployeePercent = valueOr(r.PFEmployeePercent, t.PFEmployeePercent)
	t.PFEmployerPercent = valueOr(r.PFEmployerPercent, t.PFEmployerPercent)
	t.StandardAllowance = valueOr(r.StandardAllowance, t.StandardAllowance)
	t.ProfessionalTax = valueOr(r.ProfessionalTax, t.ProfessionalTax)
	return t
}

func validateTemplateFields(errs *validator.ValidationErrors, basic, hra, lta, pfEmployee, pfEmployer, standardAllowance, professionalTax *decimal.Decimal) {
	percents := []struct {
		field string
		value *decimal.Decimal
	}{
		{"basic_percent", basic},
		{"hra_percent", hra},
		{"lta_percent", lta},
		{"pf_employee_percent", pfEmployee},
		{"pf_employer_percent", pfEmployer},
	}
	for _, p := range percents {
		if p.value != nil {
			checkPercent(errs, p.field, *p.value)
		}
	}

	if standardAllowance != nil {
		checkAmount(errs, "standard_allowance", *standardAllowance)
	}
	if professionalTax != nil {
		checkAmount(errs, "professional_tax", *professionalTax)
	}
}

func checkPercent(errs *validator.ValidationErrors, field string, v decimal.Decimal) {
	switch {
	case !validator.IsValidPercent(v):
		errs.Add(field, field+" must be between 0 and 100")
	case !validator.MaxScale(v, validator.AmountScale):
		errs.Add(field, field+" must have at most 2 decimal places")
	}
}

func checkAmount(errs *validator.ValidationErrors, field string, v decimal.Decimal) {
	switch {
	case !validator.IsNonNegative(v):
		errs.Add(field, field+" must be non-negative")
	case !validator.MaxScale(v, validator.AmountScale):
		errs.Add(field, field+" must have at most 2 decimal places")
	}
}

type CreateStructureRequest struct {
	EmployeeID              string           `json:"employee_id"`
	TemplateID              string           `json:"template_id"`
	MonthlyWage             decimal.Decimal  `json:"monthly_wage"`
	PerformanceBonusPercent *decimal.Decimal `json:"performance_bonus_percent,omitempty"`
	FixedAllowance          *decimal.Decimal `json:"fixed_allowance,omitempty"`
	OtherDeductions         *decimal.Decimal `json:"other_deductions,omitempty"`
	EffectiveFrom           string           `json:"effective_from"`
}

func (r *CreateStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.TemplateID) {
		errs.Add("template_id", "template_id is required")
	}
	if !r.MonthlyWage.IsPositive() {
		errs.Add("monthly_wage", "monthly_wage must be greater than zero")
	} else {
		checkAmount(&errs, "monthly_wage", r.MonthlyWage)
	}
	if r.PerformanceBonusPercent != nil {
		checkPercent(&errs, "performance_bonus_percent", *r.PerformanceBonusPercent)
	}
	if r.FixedAllowance != nil {
		checkAmount(&errs, "fixed_allowance", *r.FixedAllowance)
	}
	if r.OtherDeductions != nil {
		checkAmount(&errs, "other_deductions", *r.OtherDeductions)
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs.Add("effective_from", "effective_from must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type ResolveRequest struct {
	EmployeeID string `json:"employee_id"`
	AsOf       string `json:"as_of"`
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if _, ok := validator.IsValidDate(r.AsOf); !ok {
		errs.Add("as_of", "as_of must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type TemplateResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	BasicPercent      decimal.Decimal `json:"basic_percent"`
	HRAPercent        decimal.Decimal `json:"hra_percent"`
	LTAPercent        decimal.Decimal `json:"lta_percent"`
	PFEmployeePercent decimal.Decimal `json:"pf_employee_percent"`
	PFEmployerPercent decimal.Decimal `json:"pf_employer_percent"`
	StandardAllowance decimal.Decimal `json:"standard_allowance"`
	ProfessionalTax   decimal.Decimal `json:"professional_tax"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func ToTemplateResponse(t Template) TemplateResponse {
	return TemplateResponse{
		ID:                t.ID,
		Name:              t.Name,
		BasicPercent:      t.BasicPercent,
		HRAPercent:        t.HRAPercent,
		LTAPercent:        t.LTAPercent,
		PFEmployeePercent: t.PFEmployeePercent,
		PFEmployerPercent: t.PFEmployerPercent,
		StandardAllowance: t.StandardAllowance,
		ProfessionalTax:   t.ProfessionalTax,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

type StructureResponse struct {
	ID                      string          `json:"id"`
	EmployeeID              string          `json:"employee_id"`
	TemplateID              string          `json:"template_id"`
	MonthlyWage             decimal.Decimal `json:"monthly_wage"`
	PerformanceBonusPercent decimal.Decimal `json:"performance_bonus_percent"`
	FixedAllowance          decimal.Decimal `json:"fixed_allowance"`
	OtherDeductions         decimal.Decimal `json:"other_deductions"`
	EffectiveFrom           string          `json:"effective_from"`
	CreatedAt               time.Time       `json:"created_at"`
}

func ToStructureResponse(s Structure) StructureResponse {
	return StructureResponse{
		ID:                      s.ID,
		EmployeeID:              s.EmployeeID,
		TemplateID:              s.TemplateID,
		MonthlyWage:             s.MonthlyWage,
		PerformanceBonusPercent: s.PerformanceBonusPercent,
		FixedAllowance:          s.FixedAllowance,
		OtherDeductions:         s.OtherDeductions,
		EffectiveFrom:           s.EffectiveFrom.Format("2006-01-02"),
		CreatedAt:               s.CreatedAt,
	}
}

type ResolvedResponse struct {
	EmployeeID        string          `json:"employee_id"`
	StructureID       string          `json:"structure_id"`
	TemplateID        string          `json:"template_id"`
	TemplateName      string          `json:"template_name"`
	EffectiveFrom     string          `json:"effective_from"`
	MonthlyWage       decimal.Decimal `json:"monthly_wage"`
	BasicPercent      decimal.Decimal `json:"basic_percent"`
	HRAPercent        decimal.Decimal `json:"hra_percent"`
	LTAPercent        decimal.Decimal `json:"lta_percent"`
	BonusPercent      decimal.Decimal `json:"performance_bonus_percent"`
	PFEmployeePercent decimal.Decimal `json:"pf_employee_percent"`
	PFEmployerPercent decimal.Decimal `json:"pf_employer_percent"`
	StandardAllowance decimal.Decimal `json:"standard_allowance"`
	FixedAllowance    decimal.Decimal `json:"fixed_allowance"`
	ProfessionalTax   decimal.Decimal `json:"professional_tax"`
	OtherDeductions   decimal.Decimal `json:"other_deductions"`
}

func ToResolvedResponse(r Resolved) ResolvedResponse {
	return ResolvedResponse{
		EmployeeID:        r.EmployeeID,
		StructureID:       r.StructureID,
		TemplateID:        r.TemplateID,
		TemplateName:      r.TemplateName,
		EffectiveFrom:     r.EffectiveFrom.Format("2006-01-02"),
		MonthlyWage:       r.MonthlyWage,
		BasicPercent:      r.BasicPercent,
		HRAPercent:        r.HRAPercent,
		LTAPercent:        r.LTAPercent,
		BonusPercent:      r.BonusPercent,
		PFEmployeePercent: r.PFEmployeePercent,
		PFEmployerPercent: r.PFEmployerPercent,
		StandardAllowance: r.StandardAllowance,
		FixedAllowance:    r.FixedAllowance,
		ProfessionalTax:   r.ProfessionalTax,
		OtherDeductions:   r.OtherDeductions,
	}
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}
