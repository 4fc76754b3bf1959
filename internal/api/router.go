// Package api assembles the HTTP surface: routing, middleware order,
// and the wiring from the connection pool down to the handlers.
package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jobdeck/server/internal/api/handlers"
	"github.com/jobdeck/server/internal/api/middleware"
	"github.com/jobdeck/server/internal/api/problem"
	"github.com/jobdeck/server/internal/auth"
	"github.com/jobdeck/server/internal/config"
	"github.com/jobdeck/server/internal/domain/companies"
	"github.com/jobdeck/server/internal/domain/jobs"
	"github.com/jobdeck/server/internal/domain/users"
	"github.com/jobdeck/server/internal/metrics"
	"github.com/jobdeck/server/internal/storage/postgres"
)

// methodMux dispatches a single route pattern by HTTP method and
// answers 405 with an Allow header for everything else.
type methodMux map[string]http.Handler

func (m methodMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if handler, ok := m[r.Method]; ok {
		handler.ServeHTTP(w, r)
		return
	}
	allowed := make([]string, 0, len(m))
	for method := range m {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	problem.Write(w, r, http.StatusMethodNotAllowed, problem.TypeMethodNotAllowed,
		"Method Not Allowed", nil, "")
}

// NewRouter builds the full handler chain for the server. Version is
// reported by /healthz.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, version string) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	companyService := companies.NewService(repo.Companies())
	jobService := jobs.NewService(repo.Jobs())
	userService := users.NewService(repo.Users())

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.JWTIssuer)

	env := cfg.Environment
	authHandler := handlers.NewAuthHandler(userService, jwtManager, env)
	companiesHandler := handlers.NewCompaniesHandler(companyService, env)
	jobsHandler := handlers.NewJobsHandler(jobService, env)
	usersHandler := handlers.NewUsersHandler(userService, jwtManager, env)

	requireAdmin := middleware.RequireAdmin(env)
	requireSelfOrAdmin := middleware.RequireSelfOrAdmin("username", env)
	limit := middleware.RateLimit(cfg.RateLimit, env)
	loginTier := middleware.WithRateLimitTier(middleware.TierLogin)
	adminTier := middleware.WithRateLimitTier(middleware.TierAdmin)

	// Tier middleware sits outside the limiter so the tier is in the
	// request context before the bucket is picked.
	public := func(h http.HandlerFunc) http.Handler {
		return limit(h)
	}
	login := func(h http.HandlerFunc) http.Handler {
		return loginTier(limit(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return adminTier(limit(requireAdmin(h)))
	}
	selfOrAdmin := func(h http.HandlerFunc) http.Handler {
		return limit(requireSelfOrAdmin(h))
	}

	mux := http.NewServeMux()

	mux.Handle("/healthz", handlers.Healthz(version))
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/auth/token", methodMux{
		http.MethodPost: login(authHandler.Token),
	})
	mux.Handle("/auth/register", methodMux{
		http.MethodPost: login(authHandler.Register),
	})

	mux.Handle("/companies", methodMux{
		http.MethodGet:  public(companiesHandler.List),
		http.MethodPost: admin(companiesHandler.Create),
	})
	mux.Handle("/companies/{handle}", methodMux{
		http.MethodGet:    public(companiesHandler.Get),
		http.MethodPatch:  admin(companiesHandler.Update),
		http.MethodDelete: admin(companiesHandler.Delete),
	})

	mux.Handle("/jobs", methodMux{
		http.MethodGet:  public(jobsHandler.List),
		http.MethodPost: admin(jobsHandler.Create),
	})
	mux.Handle("/jobs/{id}", methodMux{
		http.MethodGet:    public(jobsHandler.Get),
		http.MethodPatch:  admin(jobsHandler.Update),
		http.MethodDelete: admin(jobsHandler.Delete),
	})

	mux.Handle("/users", methodMux{
		http.MethodGet:  admin(usersHandler.List),
		http.MethodPost: admin(usersHandler.Create),
	})
	mux.Handle("/users/{username}", methodMux{
		http.MethodGet:    selfOrAdmin(usersHandler.Get),
		http.MethodPatch:  selfOrAdmin(usersHandler.Update),
		http.MethodDelete: selfOrAdmin(usersHandler.Delete),
	})
	mux.Handle("/users/{username}/jobs/{id}", methodMux{
		http.MethodPost: selfOrAdmin(usersHandler.Apply),
	})

	// Outermost first: every request gets an ID and a scoped logger
	// before anything can log or fail.
	var handler http.Handler = mux
	handler = middleware.JWTAuth(jwtManager, env)(handler)
	handler = middleware.RequestSize(middleware.MaxBodySize)(handler)
	handler = middleware.SecurityHeaders(env == "production")(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.CorrelationID(logger)(handler)

	return handler, nil
}
