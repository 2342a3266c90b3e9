package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode   string `json:"employee_code"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	HireDate       string `json:"hire_date"`
	EmploymentType string `json:"employment_type"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	} else if len(r.EmployeeCode) > 50 {
		errs.Add("employee_code", "employee_code must not exceed 50 characters")
	}

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	} else if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}

	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
	}

	if r.EmploymentType == "" {
		r.EmploymentType = string(EmploymentTypeFullTime)
	}
	if !EmploymentType(r.EmploymentType).IsValid() {
		errs.Add("employment_type", "employment_type must be one of full_time, part_time, contract, intern")
	}

	return errs.Err()
}

// Normalize trims identifiers before they reach the store.
func (r *CreateEmployeeRequest) Normalize() {
	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type EmployeeFilter struct {
	ActiveOnly bool
	Search     string
}

type EmployeeResponse struct {
	ID             string    `json:"id"`
	EmployeeCode   string    `json:"employee_code"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	HireDate       string    `json:"hire_date"`
	EmploymentType string    `json:"employment_type"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		EmployeeCode:   e.EmployeeCode,
		FullName:       e.FullName,
		Email:          e.Email,
		HireDate:       e.HireDate.Format("2006-01-02"),
		EmploymentType: string(e.EmploymentType),
		IsActive:       e.IsActive,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
