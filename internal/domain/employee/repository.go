package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByCodeOrEmail(ctx context.Context, employeeCode, email string) (bool, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	SetActive(ctx context.Context, id string, active bool) error
}
