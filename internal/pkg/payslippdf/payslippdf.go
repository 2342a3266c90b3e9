package payslippdf

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Renderer writes a single-page A4 payslip.
type Renderer struct {
	Company  string
	Currency string
}

func NewRenderer(company, currency string) *Renderer {
	return &Renderer{Company: company, Currency: currency}
}

type line struct {
	label  string
	amount decimal.Decimal
}

// Render writes the payslip as PDF to w.
func (r *Renderer) Render(w io.Writer, p payroll.PayslipResponse) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", p.PeriodStart, p.EmployeeID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.Company)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Payslip")
	pdf.Ln(12)

	name, code := p.EmployeeID, ""
	if p.EmployeeName != nil {
		name = *p.EmployeeName
	}
	if p.EmployeeCode != nil {
		code = *p.EmployeeCode
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s %s", name, code))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", p.PeriodStart, p.PeriodEnd))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Salary template: %s", p.TemplateName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", p.Status))
	if p.PaymentDate != nil {
		pdf.Ln(6)
		pdf.Cell(0, 7, fmt.Sprintf("Paid on: %s", *p.PaymentDate))
	}
	pdf.Ln(10)

	r.section(pdf, "Earnings", []line{
		{"Basic", p.Basic},
		{"House rent allowance", p.HRA},
		{"Leave travel allowance", p.LTA},
		{"Performance bonus", p.Bonus},
		{"Standard allowance", p.StandardAllowance},
		{"Fixed allowance", p.FixedAllowance},
	}, line{"Gross", p.Gross})

	r.section(pdf, "Deductions", []line{
		{"Provident fund", p.PFEmployee},
		{"Professional tax", p.ProfessionalTax},
		{"Other deductions", p.OtherDeductions},
	}, line{"Total deductions", p.TotalDeductions})

	r.section(pdf, "Attendance", []line{
		{"Net salary", p.Net},
		{"Unpaid leave deduction", p.UnpaidLeaveDeduction},
	}, line{"Net payable", valueOr(p.ProratedNet, p.Net)})

	pdf.SetFont("Helvetica", "", 9)
	if p.WorkingDays != nil && p.DaysWorked != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Working days %d, days worked %s.", *p.WorkingDays, p.DaysWorked.String()))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Employer PF contribution %s %s.", p.PFEmployer.StringFixed(2), r.Currency))

	return pdf.Output(w)
}

func (r *Renderer) section(pdf *gofpdf.Fpdf, title string, lines []line, total line) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		r.row(pdf, l)
	}

	pdf.SetFont("Helvetica", "B", 11)
	r.row(pdf, total)
	pdf.Ln(4)
}

func (r *Renderer) row(pdf *gofpdf.Fpdf, l line) {
	pdf.CellFormat(120, 7, l.label, "B", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, fmt.Sprintf("%s %s", l.amount.StringFixed(2), r.Currency), "B", 1, "R", false, 0, "")
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}
