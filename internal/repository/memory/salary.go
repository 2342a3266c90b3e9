package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/calendar"
)

type TemplateRepository struct {
	mu   sync.RWMutex
	rows map[string]salary.Template
}

func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{rows: make(map[string]salary.Template)}
}

func (r *TemplateRepository) Create(ctx context.Context, template salary.Template) (salary.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	template.ID = newID()
	template.CreatedAt, template.UpdatedAt = now(), now()
	r.rows[template.ID] = template
	return template, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id string) (salary.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.rows[id]
	if !ok {
		return salary.Template{}, salary.ErrTemplateNotFound
	}
	return t, nil
}

func (r *TemplateRepository) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, t := range r.rows {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *TemplateRepository) List(ctx context.Context) ([]salary.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]salary.Template, 0, len(r.rows))
	for _, t := range r.rows {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *TemplateRepository) Update(ctx context.Context, template salary.Template) (salary.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[template.ID]
	if !ok {
		return salary.Template{}, salary.ErrTemplateNotFound
	}
	template.CreatedAt = existing.CreatedAt
	template.UpdatedAt = now()
	r.rows[template.ID] = template
	return template, nil
}

type StructureRepository struct {
	mu   sync.RWMutex
	rows map[string]salary.Structure
}

func NewStructureRepository() *StructureRepository {
	return &StructureRepository{rows: make(map[string]salary.Structure)}
}

func (r *StructureRepository) Create(ctx context.Context, structure salary.Structure) (salary.Structure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	effectiveFrom := calendar.Date(structure.EffectiveFrom)
	for _, s := range r.rows {
		if s.EmployeeID == structure.EmployeeID && s.EffectiveFrom.Equal(effectiveFrom) {
			return salary.Structure{}, salary.ErrDuplicateEffectiveDate
		}
	}

	structure.ID = newID()
	structure.EffectiveFrom = effectiveFrom
	structure.CreatedAt, structure.UpdatedAt = now(), now()
	r.rows[structure.ID] = structure
	return structure, nil
}

func (r *StructureRepository) GetByID(ctx context.Context, id string) (salary.Structure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.rows[id]
	if !ok {
		return salary.Structure{}, salary.ErrStructureNotFound
	}
	return s, nil
}

func (r *StructureRepository) ExistsByEmployeeAndEffectiveFrom(ctx context.Context, employeeID string, effectiveFrom time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	effectiveFrom = calendar.Date(effectiveFrom)
	for _, s := range r.rows {
		if s.EmployeeID == employeeID && s.EffectiveFrom.Equal(effectiveFrom) {
			return true, nil
		}
	}
	return false, nil
}

func (r *StructureRepository) ListByEmployee(ctx context.Context, employeeID string) ([]salary.Structure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []salary.Structure
	for _, s := range r.rows {
		if s.EmployeeID == employeeID {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EffectiveFrom.After(result[j].EffectiveFrom) })
	return result, nil
}

func (r *StructureRepository) GetEffective(ctx context.Context, employeeID string, asOf time.Time) (salary.Structure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  salary.Structure
		found bool
	)
	for _, s := range r.rows {
		if s.EmployeeID != employeeID || s.EffectiveFrom.After(asOf) {
			continue
		}
		if !found || s.EffectiveFrom.After(best.EffectiveFrom) {
			best, found = s, true
		}
	}
	if !found {
		return salary.Structure{}, salary.ErrNoActiveStructure
	}
	return best, nil
}
