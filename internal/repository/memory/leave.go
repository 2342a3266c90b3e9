package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
)

type LeaveTypeRepository struct {
	mu   sync.RWMutex
	rows map[string]leave.LeaveType
}

func NewLeaveTypeRepository() *LeaveTypeRepository {
	return &LeaveTypeRepository{rows: make(map[string]leave.LeaveType)}
}

func (r *LeaveTypeRepository) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rows {
		if strings.EqualFold(existing.Name, leaveType.Name) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	leaveType.ID = newID()
	leaveType.CreatedAt, leaveType.UpdatedAt = now(), now()
	r.rows[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r *LeaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.rows[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (r *LeaveTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.rows {
		if strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeaveTypeRepository) List(ctx context.Context) ([]leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]leave.LeaveType, 0, len(r.rows))
	for _, t := range r.rows {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type balanceKey struct {
	employeeID  string
	leaveTypeID string
	year        int
}

type LeaveBalanceRepository struct {
	mu   sync.RWMutex
	rows map[balanceKey]leave.Balance
}

func NewLeaveBalanceRepository() *LeaveBalanceRepository {
	return &LeaveBalanceRepository{rows: make(map[balanceKey]leave.Balance)}
}

func (r *LeaveBalanceRepository) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.rows[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *LeaveBalanceRepository) Create(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{balance.EmployeeID, balance.LeaveTypeID, balance.Year}
	if existing, ok := r.rows[key]; ok {
		return existing, nil
	}
	balance.ID = newID()
	balance.CreatedAt, balance.UpdatedAt = now(), now()
	r.rows[key] = balance
	return balance, nil
}

func (r *LeaveBalanceRepository) UpdateDays(ctx context.Context, balance leave.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey{balance.EmployeeID, balance.LeaveTypeID, balance.Year}
	existing, ok := r.rows[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	existing.TotalDays = balance.TotalDays
	existing.UsedDays = balance.UsedDays
	existing.UpdatedAt = now()
	r.rows[key] = existing
	return nil
}

func (r *LeaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []leave.Balance
	for key, b := range r.rows {
		if key.employeeID == employeeID && key.year == year {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LeaveTypeID < result[j].LeaveTypeID })
	return result, nil
}

type LeaveRequestRepository struct {
	mu   sync.RWMutex
	rows map[string]leave.LeaveRequest
}

func NewLeaveRequestRepository() *LeaveRequestRepository {
	return &LeaveRequestRepository{rows: make(map[string]leave.LeaveRequest)}
}

func (r *LeaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request.ID = newID()
	request.CreatedAt, request.UpdatedAt = now(), now()
	r.rows[request.ID] = request
	return request, nil
}

func (r *LeaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.rows[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *LeaveRequestRepository) UpdateStatus(ctx context.Context, request leave.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[request.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	existing.Status = request.Status
	existing.ReviewedBy = request.ReviewedBy
	existing.ReviewNotes = request.ReviewNotes
	existing.ReviewedAt = request.ReviewedAt
	existing.UpdatedAt = now()
	r.rows[request.ID] = existing
	return nil
}

func (r *LeaveRequestRepository) CheckOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.rows {
		if req.EmployeeID != employeeID {
			continue
		}
		if req.Status != leave.RequestStatusPending && req.Status != leave.RequestStatusApproved {
			continue
		}
		if calendar.Overlaps(req.StartDate, req.EndDate, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, status *leave.RequestStatus) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []leave.LeaveRequest
	for _, req := range r.rows {
		if req.EmployeeID != employeeID {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		result = append(result, req)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

func (r *LeaveRequestRepository) ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []leave.LeaveRequest
	for _, req := range r.rows {
		if req.EmployeeID == employeeID &&
			req.Status == leave.RequestStatusApproved &&
			calendar.Overlaps(req.StartDate, req.EndDate, from, to) {
			result = append(result, req)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}
