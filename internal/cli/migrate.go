package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Create or update the database schema and seed the built-in roles.

The database is taken from DATABASE_URL:
  DATABASE_URL=postgres://teamsync@localhost/teamsync teamsync migrate
  DATABASE_URL=sqlite:teamsync.db teamsync migrate
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := FromCommand(cmd)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					slog.Warn("failed to close application", "error", err)
				}
			}()

			if err := c.App.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
			return nil
		},
	}
}
