package leave

import "errors"

var (
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeNameExists  = errors.New("leave type name already exists")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrOverlappingRequest   = errors.New("leave request overlaps an existing pending or approved request")
	ErrInvalidState         = errors.New("leave request is not in a valid state for this action")
	ErrSelfApproval         = errors.New("cannot review your own leave request")
	ErrNotRequestOwner      = errors.New("only the requester or a manager can cancel this leave request")
	ErrNoWorkingDays        = errors.New("leave range contains no working days")
)
