package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
	StatusOnLeave Status = "on_leave"

	// Derived only, never stored.
	StatusOffDay   Status = "off_day"
	StatusUpcoming Status = "upcoming"
)

// Record is one employee's attendance for one calendar date.
type Record struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	CheckIn     *time.Time
	CheckOut    *time.Time
	Status      Status
	WorkedHours decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r Record) IsOpen() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// Policy holds the thresholds used to classify a day.
type Policy struct {
	// StandardStart is the offset from midnight at which the workday begins.
	StandardStart time.Duration
	LateThreshold time.Duration
	HalfDayHours  decimal.Decimal
	FullDayHours  decimal.Decimal
	Location      *time.Location
}

func DefaultPolicy() Policy {
	return Policy{
		StandardStart: 9 * time.Hour,
		LateThreshold: 15 * time.Minute,
		HalfDayHours:  decimal.NewFromInt(4),
		FullDayHours:  decimal.NewFromInt(8),
		Location:      time.UTC,
	}
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// LateCutoff returns the last instant on date at which a check-in still
// counts as on time.
func (p Policy) LateCutoff(date time.Time) time.Time {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, p.location())
	return midnight.Add(p.StandardStart + p.LateThreshold)
}

// LeaveCoverage describes an approved leave covering a day.
type LeaveCoverage struct {
	RequestID   string
	LeaveTypeID string
	LeaveType   string
	IsPaid      bool
}

// Day is the resolved status of a single calendar date.
type Day struct {
	Date        time.Time
	Status      Status
	WorkedHours decimal.Decimal
	CheckIn     *time.Time
	CheckOut    *time.Time
	Leave       *LeaveCoverage
}

// Summary aggregates resolved days over an inclusive date range.
type Summary struct {
	EmployeeID       string
	From             time.Time
	To               time.Time
	Days             []Day
	TotalWorkedHours decimal.Decimal
	OvertimeHours    decimal.Decimal
	Present          int
	Late             int
	HalfDay          int
	Absent           int
	PaidLeave        int
	UnpaidLeave      int
	OffDays          int
	Upcoming         int
}

// OnLeave returns the number of leave days regardless of pay.
func (s Summary) OnLeave() int {
	return s.PaidLeave + s.UnpaidLeave
}
