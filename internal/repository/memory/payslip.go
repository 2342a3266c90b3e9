package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
)

type PayslipRepository struct {
	mu   sync.RWMutex
	rows map[string]payroll.Payslip
}

func NewPayslipRepository() *PayslipRepository {
	return &PayslipRepository{rows: make(map[string]payroll.Payslip)}
}

func (r *PayslipRepository) Create(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.rows {
		if p.EmployeeID == payslip.EmployeeID &&
			p.PeriodStart.Equal(payslip.PeriodStart) &&
			p.PeriodEnd.Equal(payslip.PeriodEnd) {
			return payroll.Payslip{}, payroll.ErrDuplicatePayslip
		}
	}

	payslip.ID = newID()
	payslip.CreatedAt, payslip.UpdatedAt = now(), now()
	r.rows[payslip.ID] = payslip
	return payslip, nil
}

func (r *PayslipRepository) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.rows[id]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (r *PayslipRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time) (*payroll.Payslip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.rows {
		if p.EmployeeID == employeeID && p.PeriodStart.Equal(start) && p.PeriodEnd.Equal(end) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PayslipRepository) ReplaceDraft(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[payslip.ID]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	if existing.Status != payroll.PayslipStatusDraft {
		return payroll.Payslip{}, payroll.ErrDuplicatePayslip
	}
	payslip.Status = payroll.PayslipStatusDraft
	payslip.CreatedAt = existing.CreatedAt
	payslip.UpdatedAt = now()
	r.rows[payslip.ID] = payslip
	return payslip, nil
}

func (r *PayslipRepository) UpdateStatus(ctx context.Context, payslip payroll.Payslip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[payslip.ID]
	if !ok {
		return payroll.ErrPayslipNotFound
	}
	existing.Status = payslip.Status
	existing.ProcessedAt = payslip.ProcessedAt
	existing.PaymentDate = payslip.PaymentDate
	existing.UpdatedAt = now()
	r.rows[payslip.ID] = existing
	return nil
}

func (r *PayslipRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return payroll.ErrPayslipNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *PayslipRepository) List(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []payroll.Payslip
	for _, p := range r.rows {
		if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Year != nil && p.PeriodStart.Year() != *filter.Year {
			continue
		}
		if filter.Month != nil && int(p.PeriodStart.Month()) != *filter.Month {
			continue
		}
		if filter.Status != nil && string(p.Status) != *filter.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PeriodStart.Equal(matched[j].PeriodStart) {
			return matched[i].EmployeeID < matched[j].EmployeeID
		}
		return matched[i].PeriodStart.After(matched[j].PeriodStart)
	})

	total := int64(len(matched))
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []payroll.Payslip{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
