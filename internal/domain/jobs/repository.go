package jobs

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("job not found")
	ErrUnknownCompany = errors.New("company does not exist")
	ErrNoFields       = errors.New("no fields to update")
)

type Job struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Salary        *int32   `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle string   `json:"company_handle"`
}

// JobWithCompany is a listing joined with its company's display fields.
type JobWithCompany struct {
	Job
	CompanyName string `json:"company_name"`
}

type CreateParams struct {
	Title         string   `validate:"required,max=100"`
	Salary        *int32   `validate:"omitempty,gte=0"`
	Equity        *float64 `validate:"omitempty,gte=0,lte=1"`
	CompanyHandle string   `validate:"required"`
}

// UpdateParams carries a partial update; id and company_handle are immutable.
type UpdateParams struct {
	Title  *string  `validate:"omitempty,min=1,max=100"`
	Salary *int32   `validate:"omitempty,gte=0"`
	Equity *float64 `validate:"omitempty,gte=0,lte=1"`
}

func (p UpdateParams) Empty() bool {
	return p.Title == nil && p.Salary == nil && p.Equity == nil
}

type Filters struct {
	Title     string
	MinSalary *int
	HasEquity bool
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Job, error)
	List(ctx context.Context, filters Filters) ([]JobWithCompany, error)
	GetByID(ctx context.Context, id int64) (*JobWithCompany, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Job, error)
	Delete(ctx context.Context, id int64) error
}
