package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jobdeck/server/internal/domain/jobs"
)

var _ jobs.Repository = (*JobRepository)(nil)

var jobUpdateColumns = map[string]string{
	"title":  "title",
	"salary": "salary",
	"equity": "equity",
}

const jobColumns = "id, title, salary, equity, company_handle"

func scanJob(row pgx.Row) (*jobs.Job, error) {
	var j jobs.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) Create(ctx context.Context, params jobs.CreateParams) (*jobs.Job, error) {
	const query = `
INSERT INTO jobs (title, salary, equity, company_handle)
VALUES ($1, $2, $3, $4)
RETURNING id, title, salary, equity, company_handle`

	row := r.queryer().QueryRow(ctx, query,
		params.Title, params.Salary, params.Equity, params.CompanyHandle)

	job, err := scanJob(row)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return nil, jobs.ErrUnknownCompany
		}
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

func (r *JobRepository) List(ctx context.Context, filters jobs.Filters) ([]jobs.JobWithCompany, error) {
	query := strings.Builder{}
	query.WriteString(`
SELECT j.id, j.title, j.salary, j.equity, j.company_handle, c.name
FROM jobs j
JOIN companies c ON c.handle = j.company_handle`)

	var clauses []string
	var args []any
	if filters.Title != "" {
		args = append(args, "%"+filters.Title+"%")
		clauses = append(clauses, fmt.Sprintf("j.title ILIKE $%d", len(args)))
	}
	if filters.MinSalary != nil {
		args = append(args, *filters.MinSalary)
		clauses = append(clauses, fmt.Sprintf("j.salary >= $%d", len(args)))
	}
	if filters.HasEquity {
		clauses = append(clauses, "j.equity > 0")
	}
	if len(clauses) > 0 {
		query.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	query.WriteString(" ORDER BY j.id")

	rows, err := r.queryer().Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	items := make([]jobs.JobWithCompany, 0)
	for rows.Next() {
		var j jobs.JobWithCompany
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, &j.CompanyName); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		items = append(items, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return items, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id int64) (*jobs.JobWithCompany, error) {
	const query = `
SELECT j.id, j.title, j.salary, j.equity, j.company_handle, c.name
FROM jobs j
JOIN companies c ON c.handle = j.company_handle
WHERE j.id = $1`

	var j jobs.JobWithCompany
	err := r.queryer().QueryRow(ctx, query, id).
		Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle, &j.CompanyName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobs.ErrNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

func (r *JobRepository) Update(ctx context.Context, id int64, params jobs.UpdateParams) (*jobs.Job, error) {
	data := map[string]any{}
	if params.Title != nil {
		data["title"] = *params.Title
	}
	if params.Salary != nil {
		data["salary"] = *params.Salary
	}
	if params.Equity != nil {
		data["equity"] = *params.Equity
	}

	query, args, err := buildPartialUpdate("jobs", data, jobUpdateColumns, "id", id)
	if err != nil {
		if errors.Is(err, errEmptyUpdate) {
			return nil, jobs.ErrNoFields
		}
		return nil, err
	}
	query += " RETURNING " + jobColumns

	job, err := scanJob(r.queryer().QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, jobs.ErrNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return jobs.ErrNotFound
	}
	return nil
}
