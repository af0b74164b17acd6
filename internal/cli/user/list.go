package user

import (
	"fmt"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teamsync/teamsync/internal/cli"
)

// ListCmd returns the user list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	formatter := &cli.OutputFormatter{JSON: jsonOutput, Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}

	c, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}()

	users, err := c.App.UserService.ListUsers(cmd.Context())
	if err != nil {
		if fmtErr := formatter.Error("USER_LIST_ERROR", err.Error()); fmtErr != nil {
			log.Printf("Error formatting error message: %v", fmtErr)
		}
		return err
	}

	if jsonOutput {
		return formatter.Success("", users, "")
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLES")
	for _, u := range users {
		roles := make([]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			roles = append(roles, r.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, strings.Join(roles, ","))
	}
	return tw.Flush()
}
