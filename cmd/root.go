// Package cmd assembles the teamsync command tree.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teamsync/teamsync/internal/cli"
	"github.com/teamsync/teamsync/internal/cli/user"
)

// Version is set at build time with -ldflags "-X github.com/teamsync/teamsync/cmd.Version=..."
var Version = "dev"

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "teamsync",
		Short:         "TeamSync - team collaboration backend",
		Long:          `TeamSync serves projects, kanban boards and tasks over a REST API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(cli.FlagError)

	root.AddCommand(cli.ServeCmd())
	root.AddCommand(cli.MigrateCmd())
	root.AddCommand(cli.SeedCmd())
	root.AddCommand(user.UserCmd())
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "teamsync "+Version)
		},
	}
}

// Execute runs the command tree under ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
