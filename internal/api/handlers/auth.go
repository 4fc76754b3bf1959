package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jobdeck/server/internal/api/problem"
	"github.com/jobdeck/server/internal/auth"
	"github.com/jobdeck/server/internal/domain/users"
)

// AuthService is the slice of the users service the auth endpoints need.
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*users.User, error)
	Register(ctx context.Context, params users.CreateParams) (*users.User, error)
}

type AuthHandler struct {
	service AuthService
	jwt     *auth.JWTManager
	env     string
}

func NewAuthHandler(service AuthService, jwt *auth.JWTManager, env string) *AuthHandler {
	return &AuthHandler{service: service, jwt: jwt, env: env}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		badBodyProblem(w, r, err, h.env)
		return
	}
	if req.Username == "" || req.Password == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", nil, h.env,
			problem.WithDetail("username and password are required"))
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid credentials", err, h.env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}

	token, err := h.jwt.Generate(user.Username, user.IsAdmin)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Register handles POST /auth/register; the created account is never admin.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badBodyProblem(w, r, err, h.env)
		return
	}

	user, err := h.service.Register(r.Context(), users.CreateParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeValidationProblem(w, r, verrs, h.env)
		case errors.Is(err, users.ErrDuplicateUsername), errors.Is(err, users.ErrDuplicateEmail):
			problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Already taken", err, h.env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		}
		return
	}

	token, err := h.jwt.Generate(user.Username, user.IsAdmin)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}
