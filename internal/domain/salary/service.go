package salary

import (
	"context"
	"time"
)

type SalaryService interface {
	// Template
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (TemplateResponse, error)
	UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) (TemplateResponse, error)
	GetTemplate(ctx context.Context, id string) (TemplateResponse, error)
	ListTemplates(ctx context.Context) ([]TemplateResponse, error)

	// Structure
	CreateStructure(ctx context.Context, req CreateStructureRequest) (StructureResponse, error)
	ListStructures(ctx context.Context, employeeID string) ([]StructureResponse, error)

	Resolver
}

// Resolver returns the structure in force for an employee on a date.
type Resolver interface {
	Resolve(ctx context.Context, employeeID string, asOf time.Time) (Resolved, error)
}
