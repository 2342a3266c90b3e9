package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, record Record) (Record, error)

	// GetByEmployeeAndDate returns nil without error when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// CloseRecord stores the check-out and the recomputed status and hours.
	CloseRecord(ctx context.Context, record Record) error

	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
}
