package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/teamsync/teamsync/internal/models"
)

// schema lists every table, parents before children
var schema = []any{
	&models.User{},
	&models.Role{},
	&models.UserRole{},
	&models.Team{},
	&models.TeamMember{},
	&models.Project{},
	&models.ProjectMember{},
	&models.Board{},
	&models.Column{},
	&models.Task{},
	&models.Subtask{},
	&models.Comment{},
	&models.TaskObserver{},
	&models.HistoryEntry{},
	&models.Attachment{},
	&models.Setting{},
}

// Migrate creates or updates all tables and seeds the built-in roles
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(schema...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := seedRoles(ctx, db); err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}
	return nil
}

// seedRoles creates the Administrator and Member roles when missing
func seedRoles(ctx context.Context, db *gorm.DB) error {
	builtin := []models.Role{
		{Name: models.RoleAdministrator, Permissions: append([]models.Permission(nil), models.AllPermissions...), IsSystem: true},
		{Name: models.RoleMember, Permissions: []models.Permission{
			models.PermDashboard, models.PermProjects, models.PermTasks, models.PermCalendar,
		}},
	}

	return withTx(ctx, db, func(tx *gorm.DB) error {
		for _, role := range builtin {
			var existing models.Role
			err := tx.Where("name = ?", role.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.Create(&role).Error; err != nil {
				return err
			}
			slog.Debug("seeded role", "role", role.Name)
		}
		return nil
	})
}
