package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teamsync/teamsync/internal/api"
	"github.com/teamsync/teamsync/internal/daemon"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Long: `Run the REST API server until SIGINT or SIGTERM.

The schema is migrated on start unless --skip-migrate is given.

Examples:
  DATABASE_URL=sqlite:teamsync.db teamsync serve
  DATABASE_URL=postgres://localhost/teamsync REDIS_URL=redis://localhost:6379 teamsync serve --addr :9000
`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides TEAMSYNC_ADDR and PORT)")
	cmd.Flags().Bool("skip-migrate", false, "Do not migrate the schema on start")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	c, err := FromCommand(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close application", "error", err)
		}
	}()

	if skip, _ := cmd.Flags().GetBool("skip-migrate"); !skip {
		if err := c.App.Migrate(ctx); err != nil {
			return err
		}
	}

	srvCfg := c.Config.Server
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		srvCfg.Addr = addr
	}

	handler := c.App.Handler(api.Options{
		AllowedOrigins: srvCfg.AllowedOrigins,
		CookieName:     c.Config.Session.CookieName,
		SecureCookie:   c.Config.Session.SecureCookie,
		MaxUploadBytes: c.Config.Upload.MaxBytes,
	})

	server, err := daemon.NewServer(srvCfg, handler, c.App.Logger)
	if err != nil {
		return err
	}
	server.Go(c.App.Listen)

	return server.Start(ctx)
}
