// Package payrollxlsx writes a payroll register workbook with one row per
// payslip.
package payrollxlsx

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Payroll Register"

// numFmtAmount is the built-in "#,##0.00" format.
const numFmtAmount = 4

var headers = []string{
	"Employee Code", "Employee Name", "Period Start", "Period End", "Status",
	"Monthly Wage", "Basic", "HRA", "LTA", "Performance Bonus", "Standard Allowance",
	"Fixed Allowance", "Gross", "PF Employee", "PF Employer", "Professional Tax",
	"Other Deductions", "Total Deductions", "Net", "Working Days", "Days Worked",
	"Unpaid Leave Deduction", "Prorated Net",
}

// firstAmountCol is the 1-based column of "Monthly Wage".
const firstAmountCol = 6

type Exporter struct {
	Currency string
}

func NewExporter(currency string) *Exporter {
	return &Exporter{Currency: currency}
}

// Write renders payslips as an XLSX workbook. Row 1 carries the title, row 3
// the headers, data starts on row 4 and a totals row follows the data.
func (e *Exporter) Write(w io.Writer, title string, payslips []payroll.PayslipResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtAmount})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(SheetName, "A1", fmt.Sprintf("%s (%s)", title, e.Currency)); err != nil {
		return err
	}

	for i, h := range headers {
		if err := setCell(f, i+1, 3, h); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(SheetName, "A3", lastCol+"3", headerStyle); err != nil {
		return err
	}

	totals := make([]decimal.Decimal, len(headers))
	row := 4
	for _, p := range payslips {
		values := rowValues(p)
		for i, v := range values {
			if err := setCell(f, i+1, row, cellValue(v)); err != nil {
				return err
			}
			if d, ok := v.(decimal.Decimal); ok && i+1 >= firstAmountCol {
				totals[i] = totals[i].Add(d)
			}
		}
		row++
	}

	if len(payslips) > 0 {
		startCell, _ := excelize.CoordinatesToCellName(firstAmountCol, 4)
		endCell, _ := excelize.CoordinatesToCellName(len(headers), row-1)
		if err := f.SetCellStyle(SheetName, startCell, endCell, amountStyle); err != nil {
			return err
		}
	}

	if err := setCell(f, 1, row, "Total"); err != nil {
		return err
	}
	for i := firstAmountCol - 1; i < len(headers); i++ {
		if isCount(headers[i]) {
			continue
		}
		if err := setCell(f, i+1, row, totals[i].InexactFloat64()); err != nil {
			return err
		}
	}
	startCell, _ := excelize.CoordinatesToCellName(1, row)
	endCell, _ := excelize.CoordinatesToCellName(len(headers), row)
	if err := f.SetCellStyle(SheetName, startCell, endCell, totalStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", "B", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", lastCol, 14); err != nil {
		return err
	}

	return f.Write(w)
}

func rowValues(p payroll.PayslipResponse) []interface{} {
	workingDays := 0
	if p.WorkingDays != nil {
		workingDays = *p.WorkingDays
	}
	return []interface{}{
		valueOr(p.EmployeeCode, p.EmployeeID),
		valueOr(p.EmployeeName, ""),
		p.PeriodStart,
		p.PeriodEnd,
		p.Status,
		p.MonthlyWage,
		p.Basic,
		p.HRA,
		p.LTA,
		p.Bonus,
		p.StandardAllowance,
		p.FixedAllowance,
		p.Gross,
		p.PFEmployee,
		p.PFEmployer,
		p.ProfessionalTax,
		p.OtherDeductions,
		p.TotalDeductions,
		p.Net,
		workingDays,
		decimalOrZero(p.DaysWorked),
		p.UnpaidLeaveDeduction,
		decimalOrZero(p.ProratedNet),
	}
}

func isCount(header string) bool {
	return header == "Working Days" || header == "Days Worked"
}

func cellValue(v interface{}) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return v
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(SheetName, cell, value)
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
