package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teamsync/teamsync/internal/app"
	"github.com/teamsync/teamsync/internal/models"
	columnservice "github.com/teamsync/teamsync/internal/services/column"
	projectservice "github.com/teamsync/teamsync/internal/services/project"
	taskservice "github.com/teamsync/teamsync/internal/services/task"
	userservice "github.com/teamsync/teamsync/internal/services/user"
)

// demoTasks are spread over the default columns, left to right
var demoTasks = []struct {
	title    string
	priority string
	column   int
}{
	{"Set up the development environment", "high", 0},
	{"Write the onboarding guide", "medium", 0},
	{"Design the task board", "medium", 1},
	{"Review API error codes", "low", 2},
	{"Create the project", "critical", 3},
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo project with tasks",
		Long: `Migrate the schema, then create a demo administrator, project and board
with a handful of tasks.
Running it twice fails because the demo email already exists.
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
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			b, err := Seed(cmd.Context(), c.App, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Demo board %s created, log in as %s\n", b.ID, email)
			return nil
		},
	}
	cmd.Flags().String("email", "admin@teamsync.local", "Demo administrator email")
	cmd.Flags().String("password", "teamsync-demo", "Demo administrator password")
	return cmd
}

// Seed creates the demo data and returns the demo board
func Seed(ctx context.Context, a *app.App, email, password string) (*models.Board, error) {
	admin, err := a.UserService.CreateUser(ctx, userservice.CreateUserRequest{
		Email:    email,
		Name:     "Demo Admin",
		Password: password,
		RoleName: models.RoleAdministrator,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}

	project, err := a.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{
		Name:        "Demo Project",
		Description: "Sample data created by teamsync seed",
		OwnerID:     admin.ID,
		Color:       "#3B82F6",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create demo project: %w", err)
	}

	b, err := a.ColumnService.CreateBoard(ctx, columnservice.CreateBoardRequest{ProjectID: project.ID, Name: "Sprint 1"})
	if err != nil {
		return nil, fmt.Errorf("failed to create demo board: %w", err)
	}
	st, err := a.ColumnService.GetBoardState(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if len(st.Columns) == 0 {
		return nil, errors.New("demo board has no columns")
	}

	for _, dt := range demoTasks {
		col := st.Columns[min(dt.column, len(st.Columns)-1)]
		if _, err := a.TaskService.CreateTask(ctx, taskservice.CreateTaskRequest{
			BoardID:    b.ID,
			ColumnID:   col.ID,
			ReporterID: admin.ID,
			Title:      dt.title,
			Priority:   dt.priority,
		}); err != nil {
			return nil, fmt.Errorf("failed to create demo task %q: %w", dt.title, err)
		}
	}
	return b, nil
}
