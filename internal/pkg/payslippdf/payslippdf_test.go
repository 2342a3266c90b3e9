package payslippdf

import (
	"bytes"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	name := "Asha Rao"
	paid := "2024-04-05"
	workingDays := 21
	daysWorked := decimal.NewFromInt(20)
	prorated := decimal.NewFromInt(43300)

	p := payroll.PayslipResponse{
		ID:           "slip-1",
		EmployeeID:   "emp-1",
		EmployeeName: &name,
		PeriodStart:  "2024-03-01",
		PeriodEnd:    "2024-03-31",
		TemplateName: "Standard",
		BreakdownResponse: payroll.BreakdownResponse{
			Basic:       decimal.NewFromInt(25000),
			Gross:       decimal.NewFromInt(48665),
			Net:         decimal.NewFromInt(45465),
			WorkingDays: &workingDays,
			DaysWorked:  &daysWorked,
			ProratedNet: &prorated,
		},
		Status:      string(payroll.PayslipStatusPaid),
		PaymentDate: &paid,
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer("Acme", "INR").Render(&buf, p))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestRender_WithoutProration(t *testing.T) {
	p := payroll.PayslipResponse{
		EmployeeID:        "emp-1",
		PeriodStart:       "2024-03-01",
		PeriodEnd:         "2024-03-31",
		BreakdownResponse: payroll.BreakdownResponse{Net: decimal.NewFromInt(100)},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer("Acme", "INR").Render(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
