package database

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/teamsync/teamsync/internal/models"
)

// CreateUser inserts a user, emails are stored lower-cased
func (r *Repository) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := r.conn(ctx).Create(u).Error; err != nil {
		return wrap("create user", err)
	}
	u.Roles = []*models.Role{}
	return nil
}

// GetUser retrieves a user with roles
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.conn(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return r.withRoles(ctx, &u)
}

// GetUserByEmail retrieves a user by email, ignoring case
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.conn(ctx).First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, wrap("get user by email", err)
	}
	return r.withRoles(ctx, &u)
}

// ListUsers returns all users ordered by name
func (r *Repository) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.conn(ctx).Order("name ASC").Find(&users).Error; err != nil {
		return nil, wrap("list users", err)
	}
	for _, u := range users {
		if _, err := r.withRoles(ctx, u); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// UpdateUser applies fields to a user
func (r *Repository) UpdateUser(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = time.Now().UTC()

	res := r.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, wrap("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, wrap("update user", models.ErrNotFound)
	}
	return r.GetUser(ctx, id)
}

func (r *Repository) withRoles(ctx context.Context, u *models.User) (*models.User, error) {
	roles, err := r.ListUserRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

// ============================================================================
// ROLES
// ============================================================================

// CreateRole inserts a role
func (r *Repository) CreateRole(ctx context.Context, role *models.Role) error {
	if err := r.conn(ctx).Create(role).Error; err != nil {
		return wrap("create role", err)
	}
	return nil
}

// GetRole retrieves a role by id
func (r *Repository) GetRole(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	if err := r.conn(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, wrap("get role", err)
	}
	return &role, nil
}

// GetRoleByName retrieves a role by its unique name
func (r *Repository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.conn(ctx).First(&role, "name = ?", name).Error; err != nil {
		return nil, wrap("get role by name", err)
	}
	return &role, nil
}

// ListRoles returns all roles, system roles first
func (r *Repository) ListRoles(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	if err := r.conn(ctx).Order("is_system DESC").Order("name ASC").Find(&roles).Error; err != nil {
		return nil, wrap("list roles", err)
	}
	return roles, nil
}

// SetRolePermissions replaces the permissions of a role
func (r *Repository) SetRolePermissions(ctx context.Context, id string, perms []models.Permission) error {
	res := r.conn(ctx).Model(&models.Role{ID: id}).Select("permissions", "updated_at").
		Updates(&models.Role{Permissions: perms, UpdatedAt: time.Now().UTC()})
	if res.Error != nil {
		return wrap("set role permissions", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("set role permissions", models.ErrNotFound)
	}
	return nil
}

// AssignRole grants a role to a user, repeated grants are ignored
func (r *Repository) AssignRole(ctx context.Context, userID, roleID string) error {
	link := &models.UserRole{UserID: userID, RoleID: roleID}
	if err := r.conn(ctx).Omit("User", "Role").Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
		return wrap("assign role", err)
	}
	return nil
}

// ListUserRoles returns the roles granted to a user
func (r *Repository) ListUserRoles(ctx context.Context, userID string) ([]*models.Role, error) {
	roles := []*models.Role{}
	err := r.conn(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Find(&roles).Error
	if err != nil {
		return nil, wrap("list user roles", err)
	}
	return roles, nil
}
