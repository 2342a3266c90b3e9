package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxRequestDays bounds the calendar span of a single leave request.
const MaxRequestDays = 90

type CreateLeaveTypeRequest struct {
	Name              string          `json:"name"`
	AnnualEntitlement decimal.Decimal `json:"annual_entitlement"`
	AccrualPolicy     string          `json:"accrual_policy"`
	IsPaid            *bool           `json:"is_paid,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}

	if r.AnnualEntitlement.IsNegative() {
		errs.Add("annual_entitlement", "annual_entitlement must be non-negative")
	} else if r.AnnualEntitlement.GreaterThan(decimal.NewFromInt(366)) {
		errs.Add("annual_entitlement", "annual_entitlement must not exceed 366 days")
	} else if !validator.MaxScale(r.AnnualEntitlement, 2) {
		errs.Add("annual_entitlement", "annual_entitlement must have at most 2 decimal places")
	}

	if r.AccrualPolicy == "" {
		r.AccrualPolicy = string(AccrualFlat)
	}
	if !AccrualPolicy(r.AccrualPolicy).IsValid() {
		errs.Add("accrual_policy", "accrual_policy must be 'flat' or 'monthly'")
	}

	return errs.Err()
}

type ApplyLeaveRequest struct {
	EmployeeID  string `json:"-"`
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id is required")
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK {
		if end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		} else if end.Sub(start) >= MaxRequestDays*24*time.Hour {
			errs.Add("end_date", "leave request must not span more than 90 days")
		}
	}

	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

// ReviewLeaveRequest is used for both approval and rejection.
type ReviewLeaveRequest struct {
	RequestID  string  `json:"-"`
	ReviewerID string  `json:"-"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *ReviewLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs.Add("request_id", "request_id is required")
	}
	if validator.IsEmpty(r.ReviewerID) {
		errs.Add("reviewer_id", "reviewer_id is required")
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs.Add("notes", "notes must not exceed 1000 characters")
	}

	return errs.Err()
}

// CancelLeaveRequest is issued by the request owner, or by hr and admin
// through ActorIsManager.
type CancelLeaveRequest struct {
	RequestID      string `json:"-"`
	ActorID        string `json:"-"`
	ActorIsManager bool   `json:"-"`
}

func (r *CancelLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs.Add("request_id", "request_id is required")
	}
	if validator.IsEmpty(r.ActorID) {
		errs.Add("actor_id", "actor_id is required")
	}

	return errs.Err()
}

type LeaveRequestFilter struct {
	EmployeeID string
	Status     *string
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if f.Status != nil {
		switch RequestStatus(*f.Status) {
		case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled:
		default:
			errs.Add("status", "status must be one of pending, approved, rejected, cancelled")
		}
	}

	return errs.Err()
}

type LeaveTypeResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	AnnualEntitlement decimal.Decimal `json:"annual_entitlement"`
	AccrualPolicy     string          `json:"accrual_policy"`
	IsPaid            bool            `json:"is_paid"`
}

func ToLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                t.ID,
		Name:              t.Name,
		AnnualEntitlement: t.AnnualEntitlement,
		AccrualPolicy:     string(t.AccrualPolicy),
		IsPaid:            t.IsPaid,
	}
}

type LeaveRequestResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	LeaveTypeID  string     `json:"leave_type_id"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	DurationDays int        `json:"duration_days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	ReviewedBy   *string    `json:"reviewed_by,omitempty"`
	ReviewNotes  *string    `json:"review_notes,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		LeaveTypeID:  r.LeaveTypeID,
		StartDate:    r.StartDate.Format("2006-01-02"),
		EndDate:      r.EndDate.Format("2006-01-02"),
		DurationDays: r.DurationDays,
		Reason:       r.Reason,
		Status:       string(r.Status),
		ReviewedBy:   r.ReviewedBy,
		ReviewNotes:  r.ReviewNotes,
		ReviewedAt:   r.ReviewedAt,
		CreatedAt:    r.CreatedAt,
	}
}

type BalanceResponse struct {
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name"`
	Year          int             `json:"year"`
	TotalDays     decimal.Decimal `json:"total_days"`
	UsedDays      decimal.Decimal `json:"used_days"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
}
