package calendar

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("end date before start date")

// Date truncates t to midnight UTC of the calendar day t falls on in its
// own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateIn maps an instant to its calendar day in loc.
func DateIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Date(t.In(loc))
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func IsBusinessDay(d time.Time) bool {
	return !IsWeekend(d)
}

// Days returns every calendar day from start to end inclusive.
func Days(start, end time.Time) ([]time.Time, error) {
	start, end = Date(start), Date(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// BusinessDays counts Monday to Friday days between start and end inclusive.
func BusinessDays(start, end time.Time) (int, error) {
	days, err := Days(start, end)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range days {
		if IsBusinessDay(d) {
			count++
		}
	}
	return count, nil
}

// Overlaps reports whether the inclusive ranges [aStart, aEnd] and
// [bStart, bEnd] share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !Date(aStart).After(Date(bEnd)) && !Date(bStart).After(Date(aEnd))
}

func Contains(start, end, d time.Time) bool {
	d = Date(d)
	return !d.Before(Date(start)) && !d.After(Date(end))
}
