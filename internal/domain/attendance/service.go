package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)
	GetSummary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
	Summarizer
}

// Summarizer resolves every day of an inclusive range. Days without a
// record are derived from approved leave, weekends and the current date.
type Summarizer interface {
	Summarize(ctx context.Context, employeeID string, from, to time.Time) (Summary, error)
}
