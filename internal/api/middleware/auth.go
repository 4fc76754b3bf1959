package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jobdeck/server/internal/api/problem"
	"github.com/jobdeck/server/internal/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// JWTAuth decodes a bearer token when one is present and stores the claims
// in the request context. A missing header is not an error here; the
// Require* middlewares decide whether authentication is mandatory. A token
// that is present but invalid always fails with 401.
func JWTAuth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" || manager == nil {
				next.ServeHTTP(w, r)
				return
			}

			token, err := auth.TokenFromHeader(header)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid authorization header", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid token", err, env)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireAuth rejects requests without valid claims in context.
func RequireAuth(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ClaimsFromRequest(r) == nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Authentication required", problem.ErrUnauthorized, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects anonymous requests with 401 and authenticated
// non-admin requests with 403.
func RequireAdmin(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromRequest(r)
			if claims == nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Authentication required", problem.ErrUnauthorized, env)
				return
			}
			if !claims.IsAdmin {
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Admin access required", problem.ErrForbidden, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin allows the request through when the authenticated user
// matches the named path parameter, or when the user is an admin.
func RequireSelfOrAdmin(param, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromRequest(r)
			if claims == nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Authentication required", problem.ErrUnauthorized, env)
				return
			}
			subject := strings.ToLower(strings.TrimSpace(r.PathValue(param)))
			if !claims.IsAdmin && !strings.EqualFold(claims.Subject, subject) {
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Access denied", problem.ErrForbidden, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromRequest returns the verified claims for the request, or nil for
// anonymous requests.
func ClaimsFromRequest(r *http.Request) *auth.Claims {
	if r == nil {
		return nil
	}
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// WithClaims is a test seam for injecting claims into a request context.
func WithClaims(r *http.Request, claims *auth.Claims) *http.Request {
	return r.WithContext(contextWithClaims(r.Context(), claims))
}
