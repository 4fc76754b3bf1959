package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobdeck/server/internal/auth"
)

var (
	genTokenUsername string
	genTokenAdmin    bool
)

// gentoken is a development helper: it mints a token with the configured
// secret so API calls can be exercised without going through /auth/token.
func newGenTokenCommand() *cobra.Command {
	gentoken := &cobra.Command{
		Use:   "gentoken",
		Short: "Generate a JWT for development and testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if genTokenUsername == "" {
				return fmt.Errorf("--username is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			manager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.JWTIssuer)
			token, err := manager.Generate(genTokenUsername, genTokenAdmin)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	gentoken.Flags().StringVar(&genTokenUsername, "username", "", "subject username for the token")
	gentoken.Flags().BoolVar(&genTokenAdmin, "admin", false, "grant the admin claim")
	return gentoken
}
