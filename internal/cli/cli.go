// Package cli holds the shared plumbing of the teamsync commands: opening
// the application from configuration, output formatting and exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teamsync/teamsync/internal/app"
	"github.com/teamsync/teamsync/internal/config"
	"github.com/teamsync/teamsync/internal/logging"
)

// ErrUsage marks flag and argument errors
var ErrUsage = errors.New("usage error")

type appKey struct{}

// WithApp makes commands run against a, used by tests
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// CLI represents the CLI application context
type CLI struct {
	App    *app.App
	Config *config.Config
	owned  bool
}

// NewCLI loads the configuration, sets up logging and opens the application
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.Init(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return &CLI{App: a, Config: cfg, owned: true}, nil
}

// FromCommand returns the application injected with WithApp, or opens one
func FromCommand(cmd *cobra.Command) (*CLI, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a, ok := ctx.Value(appKey{}).(*app.App); ok {
		return &CLI{App: a, Config: config.Default()}, nil
	}
	return NewCLI(ctx)
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	logging.Close()
	return c.App.Close()
}

// FlagError wraps cobra flag errors so they exit with ExitUsage
func FlagError(_ *cobra.Command, err error) error {
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
