package employee

import (
	"time"
)

type Employee struct {
	ID             string
	EmployeeCode   string
	FullName       string
	Email          string
	HireDate       time.Time
	EmploymentType EmploymentType
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full_time"
	EmploymentTypePartTime EmploymentType = "part_time"
	EmploymentTypeContract EmploymentType = "contract"
	EmploymentTypeIntern   EmploymentType = "intern"
)

func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentTypeFullTime, EmploymentTypePartTime, EmploymentTypeContract, EmploymentTypeIntern:
		return true
	}
	return false
}
