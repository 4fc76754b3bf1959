package companies

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("company not found")
	ErrDuplicateHandle = errors.New("company handle already taken")
	ErrDuplicateName   = errors.New("company name already taken")
	ErrNoFields        = errors.New("no fields to update")
)

type Company struct {
	Handle       string `json:"handle"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	NumEmployees *int32 `json:"num_employees"`
	LogoURL      string `json:"logo_url"`
}

// JobSummary is the slice of a job listing embedded in a company detail view.
type JobSummary struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Salary *int32   `json:"salary"`
	Equity *float64 `json:"equity"`
}

type CompanyDetails struct {
	Company
	Jobs []JobSummary `json:"jobs"`
}

type CreateParams struct {
	Handle       string `validate:"required,max=25,handle"`
	Name         string `validate:"required,max=100"`
	Description  string
	NumEmployees *int32 `validate:"omitempty,gte=0"`
	LogoURL      string `validate:"omitempty,url"`
}

// UpdateParams carries a partial update; nil fields are left untouched.
// The handle itself is immutable.
type UpdateParams struct {
	Name         *string `validate:"omitempty,min=1,max=100"`
	Description  *string
	NumEmployees *int32 `validate:"omitempty,gte=0"`
	LogoURL      *string
}

func (p UpdateParams) Empty() bool {
	return p.Name == nil && p.Description == nil && p.NumEmployees == nil && p.LogoURL == nil
}

type Filters struct {
	NameLike     string
	MinEmployees *int
	MaxEmployees *int
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Company, error)
	List(ctx context.Context, filters Filters) ([]Company, error)
	GetByHandle(ctx context.Context, handle string) (*CompanyDetails, error)
	Update(ctx context.Context, handle string, params UpdateParams) (*Company, error)
	Delete(ctx context.Context, handle string) error
}
