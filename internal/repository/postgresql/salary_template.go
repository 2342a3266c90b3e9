package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salaryTemplateRepositoryImpl struct {
	db *database.DB
}

func NewSalaryTemplateRepository(db *database.DB) salary.TemplateRepository {
	return &salaryTemplateRepositoryImpl{db: db}
}

const salaryTemplateColumns = `id, name, basic_percent, hra_percent, lta_percent, pf_employee_percent,
	pf_employer_percent, standard_allowance, professional_tax, created_at, updated_at`

func scanSalaryTemplate(row pgx.Row) (salary.Template, error) {
	var t salary.Template
	err := row.Scan(
		&t.ID, &t.Name, &t.BasicPercent, &t.HRAPercent, &t.LTAPercent, &t.PFEmployeePercent,
		&t.PFEmployerPercent, &t.StandardAllowance, &t.ProfessionalTax, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Create implements salary.TemplateRepository.
func (r *salaryTemplateRepositoryImpl) Create(ctx context.Context, template salary.Template) (salary.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_templates (id, name, basic_percent, hra_percent, lta_percent, pf_employee_percent,
			pf_employer_percent, standard_allowance, professional_tax)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + salaryTemplateColumns

	created, err := scanSalaryTemplate(q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(),
		template.Name,
		template.BasicPercent,
		template.HRAPercent,
		template.LTAPercent,
		template.PFEmployeePercent,
		template.PFEmployerPercent,
		template.StandardAllowance,
		template.ProfessionalTax,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return salary.Template{}, salary.ErrTemplateNameExists
		}
		return salary.Template{}, fmt.Errorf("failed to create salary template: %w", err)
	}
	return created, nil
}

// GetByID implements salary.TemplateRepository.
func (r *salaryTemplateRepositoryImpl) GetByID(ctx context.Context, id string) (salary.Template, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanSalaryTemplate(q.QueryRow(ctx, `SELECT `+salaryTemplateColumns+` FROM salary_templates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Template{}, salary.ErrTemplateNotFound
		}
		return salary.Template{}, fmt.Errorf("failed to get salary template %s: %w", id, err)
	}
	return t, nil
}

// ExistsByName implements salary.TemplateRepository.
func (r *salaryTemplateRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS (SELECT 1 FROM salary_templates WHERE LOWER(name) = LOWER($1) AND ($2::uuid IS NULL OR id <> $2::uuid))`

	var exists bool
	if err := q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check salary template name: %w", err)
	}
	return exists, nil
}

// List implements salary.TemplateRepository.
func (r *salaryTemplateRepositoryImpl) List(ctx context.Context) ([]salary.Template, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+salaryTemplateColumns+` FROM salary_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary templates: %w", err)
	}
	defer rows.Close()

	templates := []salary.Template{}
	for rows.Next() {
		t, err := scanSalaryTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Update implements salary.TemplateRepository.
func (r *salaryTemplateRepositoryImpl) Update(ctx context.Context, template salary.Template) (salary.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_templates
		SET name = $2, basic_percent = $3, hra_percent = $4, lta_percent = $5, pf_employee_percent = $6,
			pf_employer_percent = $7, standard_allowance = $8, professional_tax = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + salaryTemplateColumns

	updated, err := scanSalaryTemplate(q.QueryRow(ctx, query,
		template.ID,
		template.Name,
		template.BasicPercent,
		template.HRAPercent,
		template.LTAPercent,
		template.PFEmployeePercent,
		template.PFEmployerPercent,
		template.StandardAllowance,
		template.ProfessionalTax,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Template{}, salary.ErrTemplateNotFound
		}
		if isUniqueViolation(err) {
			return salary.Template{}, salary.ErrTemplateNameExists
		}
		return salary.Template{}, fmt.Errorf("failed to update salary template %s: %w", template.ID, err)
	}
	return updated, nil
}
