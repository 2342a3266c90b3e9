package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	// Leave Type
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)

	// Leave Request
	ApplyLeave(ctx context.Context, req ApplyLeaveRequest) (LeaveRequestResponse, error)
	ApproveLeave(ctx context.Context, req ReviewLeaveRequest) (LeaveRequestResponse, error)
	RejectLeave(ctx context.Context, req ReviewLeaveRequest) (LeaveRequestResponse, error)
	CancelLeave(ctx context.Context, req CancelLeaveRequest) (LeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)

	// Leave Balance
	GetLeaveBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
}

// CoverageReader exposes approved leave for read-side projections.
type CoverageReader interface {
	ApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Coverage, error)
}

// Coverage is an approved request joined with its leave type.
type Coverage struct {
	Request LeaveRequest
	Type    LeaveType
}
