package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
)

type EmployeeRepository struct {
	mu   sync.RWMutex
	rows map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{rows: make(map[string]employee.Employee)}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rows {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if existing.Email == e.Email {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}

	if e.ID == "" {
		e.ID = newID()
	}
	e.CreatedAt, e.UpdatedAt = now(), now()
	r.rows[e.ID] = e
	return e, nil
}

func (r *EmployeeRepository) ExistsByCodeOrEmail(ctx context.Context, employeeCode, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.rows {
		if e.EmployeeCode == employeeCode || e.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *EmployeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	result := make([]employee.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.FullName), search) &&
			!strings.Contains(strings.ToLower(e.EmployeeCode), search) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeCode < result[j].EmployeeCode })
	return result, nil
}

func (r *EmployeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return r.List(ctx, employee.EmployeeFilter{ActiveOnly: true})
}

func (r *EmployeeRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rows[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.IsActive = active
	e.UpdatedAt = now()
	r.rows[id] = e
	return nil
}
