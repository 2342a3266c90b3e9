package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// checkInStatus classifies a check-in made at the given instant.
func checkInStatus(policy attendance.Policy, date, at time.Time) attendance.Status {
	if at.After(policy.LateCutoff(date)) {
		return attendance.StatusLate
	}
	return attendance.StatusPresent
}

// workedHours returns the span between in and out in hours, rounded half-up
// to one decimal place.
func workedHours(in, out time.Time) decimal.Decimal {
	seconds := int64(out.Sub(in) / time.Second)
	return decimal.NewFromInt(seconds).Div(secondsPerHour).Round(1)
}

// checkOutStatus keeps the check-in status unless the day fell short of the
// half-day threshold.
func checkOutStatus(policy attendance.Policy, current attendance.Status, hours decimal.Decimal) attendance.Status {
	if hours.LessThan(policy.HalfDayHours) {
		return attendance.StatusHalfDay
	}
	return current
}

// resolveDays projects records, approved leave and the calendar onto every
// day of [from, to]. today decides which days are still upcoming.
func resolveDays(
	policy attendance.Policy,
	employeeID string,
	from, to, today time.Time,
	records []attendance.Record,
	coverage []leave.Coverage,
) (attendance.Summary, error) {
	days, err := calendar.Days(from, to)
	if err != nil {
		return attendance.Summary{}, err
	}

	byDate := make(map[time.Time]attendance.Record, len(records))
	for _, r := range records {
		byDate[calendar.Date(r.Date)] = r
	}

	summary := attendance.Summary{
		EmployeeID:       employeeID,
		From:             calendar.Date(from),
		To:               calendar.Date(to),
		Days:             make([]attendance.Day, 0, len(days)),
		TotalWorkedHours: decimal.Zero,
		OvertimeHours:    decimal.Zero,
	}

	for _, date := range days {
		day := attendance.Day{Date: date, WorkedHours: decimal.Zero}

		if rec, ok := byDate[date]; ok {
			day.Status = rec.Status
			day.WorkedHours = rec.WorkedHours
			day.CheckIn = rec.CheckIn
			day.CheckOut = rec.CheckOut
		} else if c := coveringLeave(coverage, date); c != nil {
			day.Status = attendance.StatusOnLeave
			day.Leave = c
		} else if calendar.IsWeekend(date) {
			day.Status = attendance.StatusOffDay
		} else if date.After(today) {
			day.Status = attendance.StatusUpcoming
		} else {
			day.Status = attendance.StatusAbsent
		}

		summary.TotalWorkedHours = summary.TotalWorkedHours.Add(day.WorkedHours)
		if extra := day.WorkedHours.Sub(policy.FullDayHours); extra.IsPositive() {
			summary.OvertimeHours = summary.OvertimeHours.Add(extra)
		}
		count(&summary, day)
		summary.Days = append(summary.Days, day)
	}

	return summary, nil
}

// coveringLeave finds the approved leave covering a business day.
func coveringLeave(coverage []leave.Coverage, date time.Time) *attendance.LeaveCoverage {
	if !calendar.IsBusinessDay(date) {
		return nil
	}
	for _, c := range coverage {
		if calendar.Contains(c.Request.StartDate, c.Request.EndDate, date) {
			return &attendance.LeaveCoverage{
				RequestID:   c.Request.ID,
				LeaveTypeID: c.Type.ID,
				LeaveType:   c.Type.Name,
				IsPaid:      c.Type.IsPaid,
			}
		}
	}
	return nil
}

func count(s *attendance.Summary, day attendance.Day) {
	switch day.Status {
	case attendance.StatusPresent:
		s.Present++
	case attendance.StatusLate:
		s.Late++
	case attendance.StatusHalfDay:
		s.HalfDay++
	case attendance.StatusAbsent:
		s.Absent++
	case attendance.StatusOnLeave:
		if day.Leave != nil && !day.Leave.IsPaid {
			s.UnpaidLeave++
		} else {
			s.PaidLeave++
		}
	case attendance.StatusOffDay:
		s.OffDays++
	case attendance.StatusUpcoming:
		s.Upcoming++
	}
}
