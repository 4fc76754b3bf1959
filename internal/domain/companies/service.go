package companies

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jobdeck/server/internal/sanitize"
)

// Handles are lowercase slugs: letters, digits, hyphens and underscores.
var handleRE = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handleRE.MatchString(fl.Field().String())
	})
	return v
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: newValidator()}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Company, error) {
	params.Handle = strings.ToLower(strings.TrimSpace(params.Handle))
	params.Name = sanitize.Text(params.Name)
	params.Description = sanitize.Text(params.Description)

	if err := s.validate.StructCtx(ctx, params); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) List(ctx context.Context, filters Filters) ([]Company, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, handle string) (*CompanyDetails, error) {
	return s.repo.GetByHandle(ctx, strings.ToLower(strings.TrimSpace(handle)))
}

func (s *Service) Update(ctx context.Context, handle string, params UpdateParams) (*Company, error) {
	if params.Empty() {
		return nil, ErrNoFields
	}
	if params.Name != nil {
		clean := sanitize.Text(*params.Name)
		params.Name = &clean
	}
	if params.Description != nil {
		clean := sanitize.Text(*params.Description)
		params.Description = &clean
	}
	if err := s.validate.StructCtx(ctx, params); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, strings.ToLower(strings.TrimSpace(handle)), params)
}

func (s *Service) Delete(ctx context.Context, handle string) error {
	return s.repo.Delete(ctx, strings.ToLower(strings.TrimSpace(handle)))
}

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseFilters reads company search filters from query parameters.
// min_employees greater than max_employees is rejected.
func ParseFilters(values url.Values) (Filters, error) {
	filters := Filters{NameLike: strings.TrimSpace(values.Get("name_like"))}

	min, err := parseOptionalInt(values, "min_employees")
	if err != nil {
		return Filters{}, err
	}
	max, err := parseOptionalInt(values, "max_employees")
	if err != nil {
		return Filters{}, err
	}
	if min != nil && max != nil && *min > *max {
		return Filters{}, FilterError{Field: "min_employees", Message: "cannot exceed max_employees"}
	}

	filters.MinEmployees = min
	filters.MaxEmployees = max
	return filters, nil
}

func parseOptionalInt(values url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil, FilterError{Field: key, Message: "must be a number"}
	}
	if parsed < 0 {
		return nil, FilterError{Field: key, Message: "must be non-negative"}
	}
	return &parsed, nil
}
