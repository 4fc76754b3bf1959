package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jobdeck/server/internal/api/problem"
	"github.com/jobdeck/server/internal/domain/companies"
)

type CompanyService interface {
	Create(ctx context.Context, params companies.CreateParams) (*companies.Company, error)
	List(ctx context.Context, filters companies.Filters) ([]companies.Company, error)
	Get(ctx context.Context, handle string) (*companies.CompanyDetails, error)
	Update(ctx context.Context, handle string, params companies.UpdateParams) (*companies.Company, error)
	Delete(ctx context.Context, handle string) error
}

type CompaniesHandler struct {
	service CompanyService
	env     string
}

func NewCompaniesHandler(service CompanyService, env string) *CompaniesHandler {
	return &CompaniesHandler{service: service, env: env}
}

type createCompanyRequest struct {
	Handle       string `json:"handle"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	NumEmployees *int32 `json:"num_employees"`
	LogoURL      string `json:"logo_url"`
}

type updateCompanyRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	NumEmployees *int32  `json:"num_employees"`
	LogoURL      *string `json:"logo_url"`
}

type companyResponse struct {
	Company *companies.Company `json:"company"`
}

type companyDetailsResponse struct {
	Company *companies.CompanyDetails `json:"company"`
}

type companyListResponse struct {
	Companies []companies.Company `json:"companies"`
}

type deletedResponse struct {
	Deleted string `json:"deleted"`
}

// Create handles POST /companies (admin only).
func (h *CompaniesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		badBodyProblem(w, r, err, h.env)
		return
	}

	company, err := h.service.Create(r.Context(), companies.CreateParams{
		Handle:       req.Handle,
		Name:         req.Name,
		Description:  req.Description,
		NumEmployees: req.NumEmployees,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, companyResponse{Company: company})
}

// List handles GET /companies with optional name/size filters.
func (h *CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := companies.ParseFilters(r.URL.Query())
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env)
		return
	}

	items, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, companyListResponse{Companies: items})
}

// Get handles GET /companies/{handle}, including the company's jobs.
func (h *CompaniesHandler) Get(w http.ResponseWriter, r *http.Request) {
	handle := pathParam(r, "handle")
	if handle == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", nil, h.env,
			problem.WithDetail("handle is required"))
		return
	}

	details, err := h.service.Get(r.Context(), handle)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, companyDetailsResponse{Company: details})
}

// Update handles PATCH /companies/{handle} (admin only).
func (h *CompaniesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		badBodyProblem(w, r, err, h.env)
		return
	}

	company, err := h.service.Update(r.Context(), pathParam(r, "handle"), companies.UpdateParams{
		Name:         req.Name,
		Description:  req.Description,
		NumEmployees: req.NumEmployees,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, companyResponse{Company: company})
}

// Delete handles DELETE /companies/{handle} (admin only).
func (h *CompaniesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	handle := pathParam(r, "handle")
	if err := h.service.Delete(r.Context(), handle); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: handle})
}

func (h *CompaniesHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeValidationProblem(w, r, verrs, h.env)
	case errors.Is(err, companies.ErrNoFields):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env,
			problem.WithDetail("no fields to update"))
	case errors.Is(err, companies.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.env)
	case errors.Is(err, companies.ErrDuplicateHandle):
		problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Handle already taken", err, h.env)
	case errors.Is(err, companies.ErrDuplicateName):
		problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Name already taken", err, h.env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
	}
}
