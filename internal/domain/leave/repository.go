package leave

import (
	"context"
	"time"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]LeaveType, error)
}

type LeaveBalanceRepository interface {
	// GetByEmployeeTypeYear returns ErrBalanceNotFound when no row exists.
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (Balance, error)
	Create(ctx context.Context, balance Balance) (Balance, error)
	UpdateDays(ctx context.Context, balance Balance) error
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]Balance, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	UpdateStatus(ctx context.Context, request LeaveRequest) error

	// CheckOverlapping reports whether a pending or approved request of the
	// employee intersects [start, end].
	CheckOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string, status *RequestStatus) ([]LeaveRequest, error)
	ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)
}
