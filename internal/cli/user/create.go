package user

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/teamsync/teamsync/internal/cli"
	userservice "github.com/teamsync/teamsync/internal/services/user"
)

// CreateCmd returns the user create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Long: `Create a user account. Use it to bootstrap the first administrator.

Examples:
  # Administrator (human-readable output)
  teamsync user create --email=admin@example.com --name=Admin --password=changeme1 --role=Administrator

  # JSON output
  teamsync user create --email=dev@example.com --name=Dev --password=changeme1 --json

  # Quiet mode for bash capture
  USER_ID=$(teamsync user create --email=dev@example.com --name=Dev --password=changeme1 --quiet)
`,
		Args: cobra.NoArgs,
		RunE: runCreate,
	}

	// Required flags
	for _, name := range []string{"email", "name", "password"} {
		cmd.Flags().String(name, "", fmt.Sprintf("User %s (required)", name))
		if err := cmd.MarkFlagRequired(name); err != nil {
			log.Printf("Error marking flag as required: %v", err)
		}
	}

	// Optional flags
	cmd.Flags().String("role", "", "Role name (default Member)")
	cmd.Flags().String("department", "", "Department")

	// Output flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")

	return cmd
}

func runCreate(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	role, _ := cmd.Flags().GetString("role")
	department, _ := cmd.Flags().GetString("department")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	formatter := &cli.OutputFormatter{JSON: jsonOutput, Quiet: quietMode, Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}

	c, err := cli.FromCommand(cmd)
	if err != nil {
		if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			log.Printf("Error formatting error message: %v", fmtErr)
		}
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("Error closing CLI: %v", err)
		}
	}()

	u, err := c.App.UserService.CreateUser(cmd.Context(), userservice.CreateUserRequest{
		Email:      email,
		Name:       name,
		Password:   password,
		Department: department,
		RoleName:   role,
	})
	if err != nil {
		if fmtErr := formatter.Error("USER_CREATE_ERROR", err.Error()); fmtErr != nil {
			log.Printf("Error formatting error message: %v", fmtErr)
		}
		return err
	}

	roleName := ""
	if len(u.Roles) > 0 {
		roleName = u.Roles[0].Name
	}
	return formatter.Success(u.ID, u, fmt.Sprintf("✓ User '%s' created (ID: %s, role: %s)", u.Email, u.ID, roleName))
}
