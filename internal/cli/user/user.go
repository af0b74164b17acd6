// Package user holds all cli commands related to user accounts
//
// e.g., teamsync user ...
package user

import "github.com/spf13/cobra"

// UserCmd returns the user command group
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}
