package jobs

import (
	"context"
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	created *CreateParams
}

func (s *stubRepository) Create(ctx context.Context, params CreateParams) (*Job, error) {
	s.created = &params
	return &Job{ID: 1, Title: params.Title, CompanyHandle: params.CompanyHandle}, nil
}

func (s *stubRepository) List(ctx context.Context, filters Filters) ([]JobWithCompany, error) {
	return nil, nil
}

func (s *stubRepository) GetByID(ctx context.Context, id int64) (*JobWithCompany, error) {
	return &JobWithCompany{Job: Job{ID: id}}, nil
}

func (s *stubRepository) Update(ctx context.Context, id int64, params UpdateParams) (*Job, error) {
	return &Job{ID: id}, nil
}

func (s *stubRepository) Delete(ctx context.Context, id int64) error {
	return nil
}

func float64Ptr(v float64) *float64 { return &v }

func TestServiceCreate_EquityBounds(t *testing.T) {
	service := NewService(&stubRepository{})

	tests := []struct {
		name    string
		equity  *float64
		wantErr bool
	}{
		{name: "nil equity", equity: nil},
		{name: "zero", equity: float64Ptr(0)},
		{name: "half", equity: float64Ptr(0.5)},
		{name: "full", equity: float64Ptr(1)},
		{name: "negative", equity: float64Ptr(-0.1), wantErr: true},
		{name: "above one", equity: float64Ptr(1.5), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), CreateParams{
				Title:         "Engineer",
				Equity:        tt.equity,
				CompanyHandle: "acme",
			})

			if tt.wantErr {
				var verrs validator.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestServiceCreate_NormalizesCompanyHandle(t *testing.T) {
	repo := &stubRepository{}
	service := NewService(repo)

	_, err := service.Create(context.Background(), CreateParams{
		Title:         "Engineer",
		CompanyHandle: " ACME ",
	})

	require.NoError(t, err)
	assert.Equal(t, "acme", repo.created.CompanyHandle)
}

func TestServiceUpdate_EmptyParams(t *testing.T) {
	service := NewService(&stubRepository{})

	_, err := service.Update(context.Background(), 1, UpdateParams{})
	assert.ErrorIs(t, err, ErrNoFields)
}

func TestParseFilters(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	tests := []struct {
		name    string
		query   string
		want    Filters
		wantErr bool
	}{
		{name: "empty", query: "", want: Filters{}},
		{name: "title", query: "title=engineer", want: Filters{Title: "engineer"}},
		{
			name:  "all filters",
			query: "title=eng&min_salary=90000&has_equity=true",
			want:  Filters{Title: "eng", MinSalary: intPtr(90000), HasEquity: true},
		},
		{name: "equity false", query: "has_equity=false", want: Filters{}},
		{name: "bad salary", query: "min_salary=lots", wantErr: true},
		{name: "negative salary", query: "min_salary=-1", wantErr: true},
		{name: "bad equity flag", query: "has_equity=maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseFilters(values)
			if tt.wantErr {
				var ferr FilterError
				assert.ErrorAs(t, err, &ferr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "valid", raw: "42", want: 42},
		{name: "padded", raw: " 7 ", want: 7},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-3", wantErr: true},
		{name: "not a number", raw: "abc", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
