package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

// RequestService drives the leave request state machine. Every transition
// runs under the requester's lock so balance checks and writes see a
// consistent ledger.
type RequestService struct {
	transactor       database.Transactor
	leaveTypeRepo    leave.LeaveTypeRepository
	leaveRequestRepo leave.LeaveRequestRepository
	employeeRepo     employee.EmployeeRepository
	balances         *BalanceService
	now              func() time.Time
}

func NewRequestService(
	transactor database.Transactor,
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	balances *BalanceService,
	now func() time.Time,
) *RequestService {
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		transactor:       transactor,
		leaveTypeRepo:    leaveTypeRepo,
		leaveRequestRepo: leaveRequestRepo,
		employeeRepo:     employeeRepo,
		balances:         balances,
		now:              now,
	}
}

func (r *RequestService) CreateRequest(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveRequest, error) {
	emp, err := r.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return leave.LeaveRequest{}, employee.ErrEmployeeInactive
	}

	leaveType, err := r.leaveTypeRepo.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave type by ID: %w", err)
	}

	startDate, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := calendar.ParseDate(req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	workingDays, err := calendar.BusinessDays(startDate, endDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to count working days: %w", err)
	}
	if workingDays == 0 {
		return leave.LeaveRequest{}, leave.ErrNoWorkingDays
	}

	request := leave.LeaveRequest{
		EmployeeID:   emp.ID,
		LeaveTypeID:  leaveType.ID,
		StartDate:    startDate,
		EndDate:      endDate,
		DurationDays: workingDays,
		Reason:       req.Reason,
		Status:       leave.RequestStatusPending,
	}

	var created leave.LeaveRequest
	err = r.transactor.WithinEmployee(ctx, emp.ID, func(ctx context.Context) error {
		hasOverlap, err := r.leaveRequestRepo.CheckOverlapping(ctx, emp.ID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if hasOverlap {
			return leave.ErrOverlappingRequest
		}

		balance, err := r.balances.Ensure(ctx, emp.ID, leaveType, request.BalanceYear())
		if err != nil {
			return err
		}
		if request.Duration().GreaterThan(balance.RemainingDays()) {
			return leave.ErrInsufficientBalance
		}

		created, err = r.leaveRequestRepo.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("Leave request submitted",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type", leaveType.Name,
		"duration_days", created.DurationDays,
	)
	return created, nil
}

// Approve charges the request's duration to the balance of its start year.
func (r *RequestService) Approve(ctx context.Context, requestID, reviewerID string, notes *string) (leave.LeaveRequest, error) {
	return r.review(ctx, requestID, reviewerID, func(ctx context.Context, request *leave.LeaveRequest) error {
		leaveType, err := r.leaveTypeRepo.GetByID(ctx, request.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("failed to get leave type by ID: %w", err)
		}

		balance, err := r.balances.Ensure(ctx, request.EmployeeID, leaveType, request.BalanceYear())
		if err != nil {
			return err
		}
		if _, err := r.balances.Consume(ctx, balance, request.Duration()); err != nil {
			return err
		}

		request.Status = leave.RequestStatusApproved
		request.ReviewNotes = notes
		return nil
	})
}

func (r *RequestService) Reject(ctx context.Context, requestID, reviewerID string, notes *string) (leave.LeaveRequest, error) {
	return r.review(ctx, requestID, reviewerID, func(ctx context.Context, request *leave.LeaveRequest) error {
		request.Status = leave.RequestStatusRejected
		request.ReviewNotes = notes
		return nil
	})
}

// review loads the request, takes the requester's lock and applies the
// transition to a pending request reviewed by someone else.
func (r *RequestService) review(
	ctx context.Context,
	requestID, reviewerID string,
	transition func(ctx context.Context, request *leave.LeaveRequest) error,
) (leave.LeaveRequest, error) {
	current, err := r.leaveRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	var request leave.LeaveRequest
	err = r.transactor.WithinEmployee(ctx, current.EmployeeID, func(ctx context.Context) error {
		request, err = r.leaveRequestRepo.GetByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request by ID: %w", err)
		}

		if request.EmployeeID == reviewerID {
			return leave.ErrSelfApproval
		}
		if request.Status != leave.RequestStatusPending {
			return leave.ErrInvalidState
		}

		if err := transition(ctx, &request); err != nil {
			return err
		}

		reviewedAt := r.now().UTC()
		request.ReviewedBy = &reviewerID
		request.ReviewedAt = &reviewedAt
		if err := r.leaveRequestRepo.UpdateStatus(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("Leave request reviewed",
		"request_id", request.ID,
		"employee_id", request.EmployeeID,
		"reviewer_id", reviewerID,
		"status", request.Status,
	)
	return request, nil
}

// Cancel withdraws a pending or approved request. Approved days go back to
// the balance they were charged to.
func (r *RequestService) Cancel(ctx context.Context, requestID, actorID string, actorIsManager bool) (leave.LeaveRequest, error) {
	current, err := r.leaveRequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}
	if current.EmployeeID != actorID && !actorIsManager {
		return leave.LeaveRequest{}, leave.ErrNotRequestOwner
	}

	var request leave.LeaveRequest
	err = r.transactor.WithinEmployee(ctx, current.EmployeeID, func(ctx context.Context) error {
		request, err = r.leaveRequestRepo.GetByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request by ID: %w", err)
		}

		switch request.Status {
		case leave.RequestStatusPending:
		case leave.RequestStatusApproved:
			leaveType, err := r.leaveTypeRepo.GetByID(ctx, request.LeaveTypeID)
			if err != nil {
				return fmt.Errorf("failed to get leave type by ID: %w", err)
			}
			balance, err := r.balances.Ensure(ctx, request.EmployeeID, leaveType, request.BalanceYear())
			if err != nil {
				return err
			}
			if _, err := r.balances.Restore(ctx, balance, request.Duration()); err != nil {
				return err
			}
		default:
			return leave.ErrInvalidState
		}

		request.Status = leave.RequestStatusCancelled
		if err := r.leaveRequestRepo.UpdateStatus(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("Leave request cancelled",
		"request_id", request.ID,
		"employee_id", request.EmployeeID,
		"actor_id", actorID,
	)
	return request, nil
}
