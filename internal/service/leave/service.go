package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	transactor       database.Transactor
	leaveTypeRepo    leave.LeaveTypeRepository
	leaveRequestRepo leave.LeaveRequestRepository
	employeeRepo     employee.EmployeeRepository
	balanceService   *BalanceService
	requestService   *RequestService
}

func NewLeaveService(
	transactor database.Transactor,
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	balanceService *BalanceService,
	requestService *RequestService,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		transactor:       transactor,
		leaveTypeRepo:    leaveTypeRepo,
		leaveRequestRepo: leaveRequestRepo,
		employeeRepo:     employeeRepo,
		balanceService:   balanceService,
		requestService:   requestService,
	}
}

var (
	_ leave.LeaveService   = (*LeaveServiceImpl)(nil)
	_ leave.CoverageReader = (*LeaveServiceImpl)(nil)
)

// ========== LEAVE TYPES ==========

func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	exists, err := l.leaveTypeRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to check leave type name: %w", err)
	}
	if exists {
		return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeNameExists
	}

	isPaid := true
	if req.IsPaid != nil {
		isPaid = *req.IsPaid
	}

	created, err := l.leaveTypeRepo.Create(ctx, leave.LeaveType{
		Name:              req.Name,
		AnnualEntitlement: req.AnnualEntitlement,
		AccrualPolicy:     leave.AccrualPolicy(req.AccrualPolicy),
		IsPaid:            isPaid,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	slog.Info("Created leave type", "leave_type_id", created.ID, "name", created.Name)
	return leave.ToLeaveTypeResponse(created), nil
}

func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := l.leaveTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	resp := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, leave.ToLeaveTypeResponse(t))
	}
	return resp, nil
}

// ========== LEAVE REQUESTS ==========

func (l *LeaveServiceImpl) ApplyLeave(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := l.requestService.CreateRequest(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToLeaveRequestResponse(created), nil
}

func (l *LeaveServiceImpl) ApproveLeave(ctx context.Context, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	approved, err := l.requestService.Approve(ctx, req.RequestID, req.ReviewerID, req.Notes)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToLeaveRequestResponse(approved), nil
}

func (l *LeaveServiceImpl) RejectLeave(ctx context.Context, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	rejected, err := l.requestService.Reject(ctx, req.RequestID, req.ReviewerID, req.Notes)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToLeaveRequestResponse(rejected), nil
}

func (l *LeaveServiceImpl) CancelLeave(ctx context.Context, req leave.CancelLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	cancelled, err := l.requestService.Cancel(ctx, req.RequestID, req.ActorID, req.ActorIsManager)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToLeaveRequestResponse(cancelled), nil
}

func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := l.leaveRequestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return leave.ToLeaveRequestResponse(request), nil
}

func (l *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var status *leave.RequestStatus
	if filter.Status != nil {
		s := leave.RequestStatus(*filter.Status)
		status = &s
	}

	requests, err := l.leaveRequestRepo.ListByEmployee(ctx, filter.EmployeeID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, leave.ToLeaveRequestResponse(r))
	}
	return resp, nil
}

// ========== LEAVE BALANCES ==========

// GetLeaveBalances returns one balance per leave type, creating missing ones.
func (l *LeaveServiceImpl) GetLeaveBalances(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	if _, err := l.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	types, err := l.leaveTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	resp := make([]leave.BalanceResponse, 0, len(types))
	err = l.transactor.WithinEmployee(ctx, employeeID, func(ctx context.Context) error {
		for _, t := range types {
			balance, err := l.balanceService.Ensure(ctx, employeeID, t, year)
			if err != nil {
				return err
			}
			resp = append(resp, leave.BalanceResponse{
				LeaveTypeID:   t.ID,
				LeaveTypeName: t.Name,
				Year:          year,
				TotalDays:     balance.TotalDays,
				UsedDays:      balance.UsedDays,
				RemainingDays: balance.RemainingDays(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ApprovedInRange implements leave.CoverageReader.
func (l *LeaveServiceImpl) ApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]leave.Coverage, error) {
	requests, err := l.leaveRequestRepo.ListApprovedInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}

	types := make(map[string]leave.LeaveType)
	coverage := make([]leave.Coverage, 0, len(requests))
	for _, r := range requests {
		t, ok := types[r.LeaveTypeID]
		if !ok {
			t, err = l.leaveTypeRepo.GetByID(ctx, r.LeaveTypeID)
			if err != nil {
				return nil, fmt.Errorf("failed to get leave type by ID: %w", err)
			}
			types[r.LeaveTypeID] = t
		}
		coverage = append(coverage, leave.Coverage{Request: r, Type: t})
	}
	return coverage, nil
}
