package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jobdeck/server/internal/domain/companies"
)

var _ companies.Repository = (*CompanyRepository)(nil)

var companyUpdateColumns = map[string]string{
	"name":          "name",
	"description":   "description",
	"num_employees": "num_employees",
	"logo_url":      "logo_url",
}

const companyColumns = "handle, name, description, num_employees, logo_url"

func scanCompany(row pgx.Row) (*companies.Company, error) {
	var c companies.Company
	if err := row.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL); err != nil {
		return nil, err
	}
	return &c, nil
}

func mapCompanyConflict(err error) error {
	if pgErrCode(err) != pgUniqueViolation {
		return nil
	}
	if strings.Contains(pgConstraint(err), "name") {
		return companies.ErrDuplicateName
	}
	return companies.ErrDuplicateHandle
}

func (r *CompanyRepository) Create(ctx context.Context, params companies.CreateParams) (*companies.Company, error) {
	const query = `
INSERT INTO companies (handle, name, description, num_employees, logo_url)
VALUES ($1, $2, $3, $4, $5)
RETURNING handle, name, description, num_employees, logo_url`

	row := r.queryer().QueryRow(ctx, query,
		params.Handle, params.Name, params.Description, params.NumEmployees, params.LogoURL)

	company, err := scanCompany(row)
	if err != nil {
		if mapped := mapCompanyConflict(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("create company: %w", err)
	}
	return company, nil
}

func (r *CompanyRepository) List(ctx context.Context, filters companies.Filters) ([]companies.Company, error) {
	query := strings.Builder{}
	query.WriteString("SELECT " + companyColumns + " FROM companies")

	var clauses []string
	var args []any
	if filters.NameLike != "" {
		args = append(args, "%"+filters.NameLike+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filters.MinEmployees != nil {
		args = append(args, *filters.MinEmployees)
		clauses = append(clauses, fmt.Sprintf("num_employees >= $%d", len(args)))
	}
	if filters.MaxEmployees != nil {
		args = append(args, *filters.MaxEmployees)
		clauses = append(clauses, fmt.Sprintf("num_employees <= $%d", len(args)))
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY name")

	rows, err := r.queryer().Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	items := make([]companies.Company, 0)
	for rows.Next() {
		var c companies.Company
		if err := rows.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return items, nil
}

func (r *CompanyRepository) GetByHandle(ctx context.Context, handle string) (*companies.CompanyDetails, error) {
	const query = `SELECT ` + companyColumns + ` FROM companies WHERE handle = $1`

	company, err := scanCompany(r.queryer().QueryRow(ctx, query, handle))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, companies.ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}

	const jobsQuery = `
SELECT id, title, salary, equity
FROM jobs
WHERE company_handle = $1
ORDER BY id`

	rows, err := r.queryer().Query(ctx, jobsQuery, handle)
	if err != nil {
		return nil, fmt.Errorf("get company jobs: %w", err)
	}
	defer rows.Close()

	details := companies.CompanyDetails{Company: *company, Jobs: make([]companies.JobSummary, 0)}
	for rows.Next() {
		var j companies.JobSummary
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity); err != nil {
			return nil, fmt.Errorf("scan company job: %w", err)
		}
		details.Jobs = append(details.Jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get company jobs: %w", err)
	}
	return &details, nil
}

func (r *CompanyRepository) Update(ctx context.Context, handle string, params companies.UpdateParams) (*companies.Company, error) {
	data := map[string]any{}
	if params.Name != nil {
		data["name"] = *params.Name
	}
	if params.Description != nil {
		data["description"] = *params.Description
	}
	if params.NumEmployees != nil {
		data["num_employees"] = *params.NumEmployees
	}
	if params.LogoURL != nil {
		data["logo_url"] = *params.LogoURL
	}

	query, args, err := buildPartialUpdate("companies", data, companyUpdateColumns, "handle", handle)
	if err != nil {
		if errors.Is(err, errEmptyUpdate) {
			return nil, companies.ErrNoFields
		}
		return nil, err
	}
	query += " RETURNING " + companyColumns

	company, err := scanCompany(r.queryer().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, companies.ErrNotFound
		}
		if mapped := mapCompanyConflict(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, handle string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM companies WHERE handle = $1`, handle)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return companies.ErrNotFound
	}
	return nil
}
