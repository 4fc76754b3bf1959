package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jobdeck/server/internal/api/problem"
	"github.com/jobdeck/server/internal/domain/jobs"
)

type JobService interface {
	Create(ctx context.Context, params jobs.CreateParams) (*jobs.Job, error)
	List(ctx context.Context, filters jobs.Filters) ([]jobs.JobWithCompany, error)
	Get(ctx context.Context, id int64) (*jobs.JobWithCompany, error)
	Update(ctx context.Context, id int64, params jobs.UpdateParams) (*jobs.Job, error)
	Delete(ctx context.Context, id int64) error
}

type JobsHandler struct {
	service JobService
	env     string
}

func NewJobsHandler(service JobService, env string) *JobsHandler {
	return &JobsHandler{service: service, env: env}
}

type createJobRequest struct {
	Title         string   `json:"title"`
	Salary        *int32   `json:"salary"`
	Equity        *float64 `json:"equity"`
	CompanyHandle string   `json:"company_handle"`
}

type updateJobRequest struct {
	Title  *string  `json:"title"`
	Salary *int32   `json:"salary"`
	Equity *float64 `json:"equity"`
}

type jobResponse struct {
	Job *jobs.Job `json:"job"`
}

type jobDetailsResponse struct {
	Job *jobs.JobWithCompany `json:"job"`
}

type jobListResponse struct {
	Jobs []jobs.JobWithCompany `json:"jobs"`
}

type deletedJobResponse struct {
	Deleted int64 `json:"deleted"`
}

// Create handles POST /jobs (admin only).
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		badBodyProblem(w, r, err, h.env)
		return
	}

	job, err := h.service.Create(r.Context(), jobs.CreateParams{
		Title:         req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: req.CompanyHandle,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobResponse{Job: job})
}

// List handles GET /jobs with optional title/salary/equity filters.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := jobs.ParseFilters(r.URL.Query())
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env)
		return
	}

	items, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobListResponse{Jobs: items})
}

// Get handles GET /jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	job, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobDetailsResponse{Job: job})
}

// Update handles PATCH /jobs/{id} (admin only).
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req updateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		badBodyProblem(w, r, err, h.env)
		return
	}

	job, err := h.service.Update(r.Context(), id, jobs.UpdateParams{
		Title:  req.Title,
		Salary: req.Salary,
		Equity: req.Equity,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobResponse{Job: job})
}

// Delete handles DELETE /jobs/{id} (admin only).
func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedJobResponse{Deleted: id})
}

func (h *JobsHandler) jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := jobs.ParseID(pathParam(r, "id"))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env)
		return 0, false
	}
	return id, true
}

func (h *JobsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeValidationProblem(w, r, verrs, h.env)
	case errors.Is(err, jobs.ErrNoFields):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env,
			problem.WithDetail("no fields to update"))
	case errors.Is(err, jobs.ErrUnknownCompany):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env,
			problem.WithFieldErrors(map[string]string{"company_handle": "company does not exist"}))
	case errors.Is(err, jobs.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
	}
}
