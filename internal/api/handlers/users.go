package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jobdeck/server/internal/api/middleware"
	"github.com/jobdeck/server/internal/api/problem"
	"github.com/jobdeck/server/internal/auth"
	"github.com/jobdeck/server/internal/domain/jobs"
	"github.com/jobdeck/server/internal/domain/users"
)

type UserService interface {
	Create(ctx context.Context, params users.CreateParams) (*users.User, error)
	List(ctx context.Context) ([]users.User, error)
	Get(ctx context.Context, username string) (*users.UserDetails, error)
	Update(ctx context.Context, username string, params users.UpdateParams) (*users.User, error)
	Delete(ctx context.Context, username string) error
	Apply(ctx context.Context, username string, jobID int64) error
}

type UsersHandler struct {
	service UserService
	jwt     *auth.JWTManager
	env     string
}

func NewUsersHandler(service UserService, jwt *auth.JWTManager, env string) *UsersHandler {
	return &UsersHandler{service: service, jwt: jwt, env: env}
}

type createUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

type userResponse struct {
	User *users.User `json:"user"`
}

type userDetailsResponse struct {
	User *users.UserDetails `json:"user"`
}

type userListResponse struct {
	Users []users.User `json:"users"`
}

type createdUserResponse struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

type appliedResponse struct {
	Applied int64 `json:"applied"`
}

// Create handles POST /users (admin only). Unlike /auth/register, this path
// may create admin accounts.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		badBodyProblem(w, r, err, h.env)
		return
	}

	user, err := h.service.Create(r.Context(), users.CreateParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.jwt.Generate(user.Username, user.IsAdmin)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}
	writeJSON(w, http.StatusCreated, createdUserResponse{User: user, Token: token})
}

// List handles GET /users (admin only).
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userListResponse{Users: items})
}

// Get handles GET /users/{username} (self or admin), including applied jobs.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.Get(r.Context(), pathParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userDetailsResponse{User: details})
}

// Update handles PATCH /users/{username} (self or admin).
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		badBodyProblem(w, r, err, h.env)
		return
	}

	user, err := h.service.Update(r.Context(), pathParam(r, "username"), users.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// Delete handles DELETE /users/{username} (self or admin).
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := pathParam(r, "username")
	if err := h.service.Delete(r.Context(), username); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: username})
}

// Apply handles POST /users/{username}/jobs/{id} (self or admin).
func (h *UsersHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, err := jobs.ParseID(pathParam(r, "id"))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env)
		return
	}

	if err := h.service.Apply(r.Context(), pathParam(r, "username"), jobID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appliedResponse{Applied: jobID})
}

func (h *UsersHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeValidationProblem(w, r, verrs, h.env)
	case errors.Is(err, users.ErrNoFields):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.env,
			problem.WithDetail("no fields to update"))
	case errors.Is(err, users.ErrNotFound):
		// A valid token whose subject no longer exists is an auth failure,
		// not a lookup miss.
		if claims := middleware.ClaimsFromRequest(r); claims != nil && !claims.IsAdmin &&
			strings.EqualFold(claims.Subject, pathParam(r, "username")) {
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Account no longer exists", err, h.env)
			return
		}
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.env)
	case errors.Is(err, users.ErrUnknownJob):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, h.env)
	case errors.Is(err, users.ErrDuplicateUsername), errors.Is(err, users.ErrDuplicateEmail),
		errors.Is(err, users.ErrDuplicateApplication):
		problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Conflict", err, h.env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
	}
}
