package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jobdeck/server/internal/api"
	"github.com/jobdeck/server/internal/auth"
	"github.com/jobdeck/server/internal/config"
	"github.com/jobdeck/server/internal/domain/users"
	"github.com/jobdeck/server/internal/metrics"
	"github.com/jobdeck/server/internal/storage/postgres"
)

var (
	serverHost string
	serverPort int
)

func newServeCommand() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the Jobdeck HTTP server",
		Long: `Start the Jobdeck HTTP server and begin accepting API requests.

The server loads configuration from environment variables (or a --config
file), bootstraps the admin account if ADMIN_* variables are set, and
shuts down gracefully on SIGINT/SIGTERM.

Examples:
  # Start with default configuration
  jobdeck serve

  # Start on a specific host and port
  jobdeck serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  jobdeck serve --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd)
		},
	}

	serve.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serve.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
	return serve
}

func runServer(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting jobdeck server")

	metrics.Init(Version, GitCommit, BuildDate)

	poolCtx, poolCancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	pool, err := postgres.NewPool(poolCtx, cfg.Database)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository setup failed: %w", err)
	}

	bootstrapCtx, bootstrapCancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	if err := bootstrapAdminUser(bootstrapCtx, repo, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}
	bootstrapCancel()

	dbCollector := metrics.NewDBCollector(pool)
	collectorCtx, collectorCancel := context.WithCancel(context.Background())
	defer collectorCancel()
	go dbCollector.Start(collectorCtx, 15*time.Second)

	handler, err := api.NewRouter(cfg, logger, pool, Version)
	if err != nil {
		return fmt.Errorf("router setup failed: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, logger)
}

// bootstrapAdminUser ensures the configured admin account exists. Missing
// bootstrap config is not an error; a partially configured one is logged
// and skipped so a typo cannot take the server down. The check-and-create
// runs in one transaction; if a concurrent replica wins the race the
// resulting duplicate error is treated as already bootstrapped.
func bootstrapAdminUser(ctx context.Context, repo *postgres.Repository, cfg config.Config, logger zerolog.Logger) error {
	bootstrap := cfg.AdminBootstrap
	if bootstrap.Username == "" || bootstrap.Password == "" || bootstrap.Email == "" {
		logger.Debug().Msg("admin bootstrap not configured; skipping")
		return nil
	}

	hash, err := auth.HashPassword(bootstrap.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return repo.WithTx(ctx, func(ctx context.Context, txRepo *postgres.Repository) error {
		store := txRepo.Users()

		_, err := store.GetCredentials(ctx, bootstrap.Username)
		if err == nil {
			return nil
		}
		if !errors.Is(err, users.ErrNotFound) {
			return fmt.Errorf("check admin user: %w", err)
		}

		_, err = store.Create(ctx, users.CreateParams{
			Username:  bootstrap.Username,
			FirstName: "Admin",
			LastName:  "User",
			Email:     bootstrap.Email,
			IsAdmin:   true,
		}, hash)
		if errors.Is(err, users.ErrDuplicateUsername) || errors.Is(err, users.ErrDuplicateEmail) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("create admin user: %w", err)
		}

		logger.Info().Str("username", bootstrap.Username).Msg("admin user bootstrapped")
		return nil
	})
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
