// Package cmd defines the server CLI: serve, migrate, version,
// healthcheck, and gentoken subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobdeck/server/internal/config"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string
)

// newRootCommand builds the command tree. Tests construct their own copy
// to avoid shared state between runs.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "jobdeck",
		Short: "Jobdeck server - job board backend",
		Long: `Jobdeck server is the backend for the Jobdeck job board.

It exposes a JSON API for companies, job postings, user accounts, and
job applications, backed by PostgreSQL with JWT authentication.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand means serve.
			return runServer(cmd)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (optional, env vars by default)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newVersionCommand())
	root.AddCommand(newHealthcheckCommand())
	root.AddCommand(newGenTokenCommand())
	return root
}

// Execute runs the CLI. Called by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}
