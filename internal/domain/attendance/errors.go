package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn      = errors.New("already checked in for this date")
	ErrNotCheckedIn          = errors.New("not checked in for this date")
	ErrAlreadyCheckedOut     = errors.New("already checked out for this date")
	ErrCheckOutBeforeCheckIn = errors.New("check-out must not be before check-in")
	ErrAttendanceNotFound    = errors.New("attendance record not found")
)
