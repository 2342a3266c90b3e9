package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxSummaryDays bounds a single summary request.
const MaxSummaryDays = 366

// CheckInRequest carries an optional RFC3339 instant in At. The current time
// is used when it is empty.
type CheckInRequest struct {
	EmployeeID string `json:"-"`
	At         string `json:"at,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	return validateEvent(r.EmployeeID, r.At)
}

type CheckOutRequest struct {
	EmployeeID string `json:"-"`
	At         string `json:"at,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	return validateEvent(r.EmployeeID, r.At)
}

func validateEvent(employeeID, at string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if at != "" {
		if _, ok := validator.IsValidDateTime(at); !ok {
			errs.Add("at", "at must be an RFC3339 timestamp")
		}
	}

	return errs.Err()
}

type SummaryRequest struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs.Add("from", "from must be in YYYY-MM-DD format")
	}
	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs.Add("to", "to must be in YYYY-MM-DD format")
	}

	if fromOK && toOK {
		if to.Before(from) {
			errs.Add("to", "to must not be before from")
		} else if to.Sub(from) >= MaxSummaryDays*24*time.Hour {
			errs.Add("to", "range must not exceed 366 days")
		}
	}

	return errs.Err()
}

type RecordResponse struct {
	ID          string          `json:"id"`
	EmployeeID  string          `json:"employee_id"`
	Date        string          `json:"date"`
	CheckIn     *time.Time      `json:"check_in,omitempty"`
	CheckOut    *time.Time      `json:"check_out,omitempty"`
	Status      string          `json:"status"`
	WorkedHours decimal.Decimal `json:"worked_hours"`
}

func ToRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Date:        r.Date.Format("2006-01-02"),
		CheckIn:     r.CheckIn,
		CheckOut:    r.CheckOut,
		Status:      string(r.Status),
		WorkedHours: r.WorkedHours,
	}
}

type DayResponse struct {
	Date        string          `json:"date"`
	Status      string          `json:"status"`
	WorkedHours decimal.Decimal `json:"worked_hours"`
	CheckIn     *time.Time      `json:"check_in,omitempty"`
	CheckOut    *time.Time      `json:"check_out,omitempty"`
	LeaveType   *string         `json:"leave_type,omitempty"`
	PaidLeave   *bool           `json:"paid_leave,omitempty"`
}

type StatusCounts struct {
	Present     int `json:"present"`
	Late        int `json:"late"`
	HalfDay     int `json:"half_day"`
	Absent      int `json:"absent"`
	OnLeave     int `json:"on_leave"`
	PaidLeave   int `json:"paid_leave"`
	UnpaidLeave int `json:"unpaid_leave"`
	OffDay      int `json:"off_day"`
	Upcoming    int `json:"upcoming"`
}

type SummaryResponse struct {
	EmployeeID       string          `json:"employee_id"`
	From             string          `json:"from"`
	To               string          `json:"to"`
	Days             []DayResponse   `json:"days"`
	TotalWorkedHours decimal.Decimal `json:"total_worked_hours"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
	Counts           StatusCounts    `json:"counts"`
}

func ToSummaryResponse(s Summary) SummaryResponse {
	days := make([]DayResponse, 0, len(s.Days))
	for _, d := range s.Days {
		day := DayResponse{
			Date:        d.Date.Format("2006-01-02"),
			Status:      string(d.Status),
			WorkedHours: d.WorkedHours,
			CheckIn:     d.CheckIn,
			CheckOut:    d.CheckOut,
		}
		if d.Leave != nil {
			name, paid := d.Leave.LeaveType, d.Leave.IsPaid
			day.LeaveType = &name
			day.PaidLeave = &paid
		}
		days = append(days, day)
	}

	return SummaryResponse{
		EmployeeID:       s.EmployeeID,
		From:             s.From.Format("2006-01-02"),
		To:               s.To.Format("2006-01-02"),
		Days:             days,
		TotalWorkedHours: s.TotalWorkedHours,
		OvertimeHours:    s.OvertimeHours,
		Counts: StatusCounts{
			Present:     s.Present,
			Late:        s.Late,
			HalfDay:     s.HalfDay,
			Absent:      s.Absent,
			OnLeave:     s.OnLeave(),
			PaidLeave:   s.PaidLeave,
			UnpaidLeave: s.UnpaidLeave,
			OffDay:      s.OffDays,
			Upcoming:    s.Upcoming,
		},
	}
}
