package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Template is a reusable set of salary percentages and fixed components.
type Template struct {
	ID                string
	Name              string
	BasicPercent      decimal.Decimal // of wage
	HRAPercent        decimal.Decimal // of basic
	LTAPercent        decimal.Decimal // of wage
	PFEmployeePercent decimal.Decimal // of basic
	PFEmployerPercent decimal.Decimal // of basic
	StandardAllowance decimal.Decimal
	ProfessionalTax   decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Structure binds an employee to a template from EffectiveFrom onwards.
type Structure struct {
	ID                      string
	EmployeeID              string
	TemplateID              string
	MonthlyWage             decimal.Decimal
	PerformanceBonusPercent decimal.Decimal // of wage
	FixedAllowance          decimal.Decimal
	OtherDeductions         decimal.Decimal
	EffectiveFrom           time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Resolved is a structure merged with its template as of a date. It is the
// only input of the payroll calculator.
type Resolved struct {
	EmployeeID    string
	StructureID   string
	TemplateID    string
	TemplateName  string
	EffectiveFrom time.Time

	MonthlyWage       decimal.Decimal
	BasicPercent      decimal.Decimal
	HRAPercent        decimal.Decimal
	LTAPercent        decimal.Decimal
	BonusPercent      decimal.Decimal
	PFEmployeePercent decimal.Decimal
	PFEmployerPercent decimal.Decimal
	StandardAllowance decimal.Decimal
	FixedAllowance    decimal.Decimal
	ProfessionalTax   decimal.Decimal
	OtherDeductions   decimal.Decimal
}

func Merge(s Structure, t Template) Resolved {
	return Resolved{
		EmployeeID:        s.EmployeeID,
		StructureID:       s.ID,
		TemplateID:        t.ID,
		TemplateName:      t.Name,
		EffectiveFrom:     s.EffectiveFrom,
		MonthlyWage:       s.MonthlyWage,
		BasicPercent:      t.BasicPercent,
		HRAPercent:        t.HRAPercent,
		LTAPercent:        t.LTAPercent,
		BonusPercent:      s.PerformanceBonusPercent,
		PFEmployeePercent: t.PFEmployeePercent,
		PFEmployerPercent: t.PFEmployerPercent,
		StandardAllowance: t.StandardAllowance,
		FixedAllowance:    s.FixedAllowance,
		ProfessionalTax:   t.ProfessionalTax,
		OtherDeductions:   s.OtherDeductions,
	}
}

// Template defaults applied when a field is omitted on create.
var (
	DefaultBasicPercent      = decimal.NewFromInt(50)
	DefaultHRAPercent        = decimal.NewFromInt(50)
	DefaultLTAPercent        = decimal.RequireFromString("8.33")
	DefaultPFEmployeePercent = decimal.NewFromInt(12)
	DefaultPFEmployerPercent = decimal.NewFromInt(12)
	DefaultStandardAllowance = decimal.Zero
	DefaultProfessionalTax   = decimal.NewFromInt(200)
)
