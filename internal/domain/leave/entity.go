package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccrualPolicy string

const (
	// AccrualFlat grants the whole annual entitlement on the first day of the year.
	AccrualFlat AccrualPolicy = "flat"
	// AccrualMonthly grants one twelfth of the entitlement per elapsed month.
	AccrualMonthly AccrualPolicy = "monthly"
)

func (p AccrualPolicy) IsValid() bool {
	return p == AccrualFlat || p == AccrualMonthly
}

// LeaveType entity
type LeaveType struct {
	ID                string
	Name              string
	AnnualEntitlement decimal.Decimal
	AccrualPolicy     AccrualPolicy
	IsPaid            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Balance is an employee's allowance for one leave type in one year.
type Balance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int
	TotalDays   decimal.Decimal
	UsedDays    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Populated by list queries
	LeaveTypeName *string
}

func (b Balance) RemainingDays() decimal.Decimal {
	return b.TotalDays.Sub(b.UsedDays)
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID           string
	EmployeeID   string
	LeaveTypeID  string
	StartDate    time.Time
	EndDate      time.Time
	DurationDays int
	Reason       string
	Status       RequestStatus
	ReviewedBy   *string
	ReviewNotes  *string
	ReviewedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Duration returns DurationDays as a decimal for balance arithmetic.
func (r LeaveRequest) Duration() decimal.Decimal {
	return decimal.NewFromInt(int64(r.DurationDays))
}

// BalanceYear is the year whose balance the request is charged against. A
// request crossing into a new year is charged in full to its start year.
func (r LeaveRequest) BalanceYear() int {
	return r.StartDate.Year()
}
