package salary

import (
	"context"
	"time"
)

type TemplateRepository interface {
	Create(ctx context.Context, template Template) (Template, error)
	GetByID(ctx context.Context, id string) (Template, error)
	ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error)
	List(ctx context.Context) ([]Template, error)
	Update(ctx context.Context, template Template) (Template, error)
}

type StructureRepository interface {
	Create(ctx context.Context, structure Structure) (Structure, error)
	GetByID(ctx context.Context, id string) (Structure, error)
	ExistsByEmployeeAndEffectiveFrom(ctx context.Context, employeeID string, effectiveFrom time.Time) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Structure, error)

	// GetEffective returns the structure with the latest effective_from on
	// or before asOf, or ErrNoActiveStructure.
	GetEffective(ctx context.Context, employeeID string, asOf time.Time) (Structure, error)
}
