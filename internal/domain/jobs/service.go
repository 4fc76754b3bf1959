package jobs

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jobdeck/server/internal/sanitize"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Job, error) {
	params.Title = sanitize.Text(params.Title)
	params.CompanyHandle = strings.ToLower(strings.TrimSpace(params.CompanyHandle))

	if err := s.validate.StructCtx(ctx, params); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) List(ctx context.Context, filters Filters) ([]JobWithCompany, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (*JobWithCompany, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Job, error) {
	if params.Empty() {
		return nil, ErrNoFields
	}
	if params.Title != nil {
		clean := sanitize.Text(*params.Title)
		params.Title = &clean
	}
	if err := s.validate.StructCtx(ctx, params); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseFilters reads job search filters from query parameters.
func ParseFilters(values url.Values) (Filters, error) {
	filters := Filters{Title: strings.TrimSpace(values.Get("title"))}

	if raw := strings.TrimSpace(values.Get("min_salary")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Filters{}, FilterError{Field: "min_salary", Message: "must be a number"}
		}
		if parsed < 0 {
			return Filters{}, FilterError{Field: "min_salary", Message: "must be non-negative"}
		}
		filters.MinSalary = &parsed
	}

	if raw := strings.TrimSpace(values.Get("has_equity")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return Filters{}, FilterError{Field: "has_equity", Message: "must be a boolean"}
		}
		filters.HasEquity = parsed
	}

	return filters, nil
}

// ParseID parses a numeric job id from a path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, FilterError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}
