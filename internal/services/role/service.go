// Package role manages roles and the permissions they grant.
package role

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/teamsync/teamsync/internal/database"
	"github.com/teamsync/teamsync/internal/models"
)

const maxRoleName = 100

// Service defines all role-related business operations
type Service interface {
	CreateRole(ctx context.Context, name string, perms []string) (*models.Role, error)
	GetRole(ctx context.Context, id string) (*models.Role, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)
	TogglePermission(ctx context.Context, roleID, permission string) (*models.Role, error)
	AssignRole(ctx context.Context, userID, roleID string) error
}

// repository defines the data access methods needed by the role service
type repository interface {
	database.RoleRepository
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type service struct {
	repo repository
}

// NewService creates a new role service
func NewService(repo repository) Service {
	return &service{repo: repo}
}

// CreateRole creates a custom role
func (s *service) CreateRole(ctx context.Context, name string, perms []string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxRoleName {
		return nil, ErrNameTooLong
	}

	granted, err := parsePermissions(perms)
	if err != nil {
		return nil, err
	}

	r := &models.Role{Name: name, Permissions: granted}
	if err := s.repo.CreateRole(ctx, r); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, ErrRoleExists
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return r, nil
}

// GetRole retrieves a role
func (s *service) GetRole(ctx context.Context, id string) (*models.Role, error) {
	return s.repo.GetRole(ctx, id)
}

// ListRoles retrieves all roles, system roles first
func (s *service) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.repo.ListRoles(ctx)
}

// TogglePermission grants the permission when the role lacks it and revokes
// it otherwise. System roles are read-only.
func (s *service) TogglePermission(ctx context.Context, roleID, permission string) (*models.Role, error) {
	p := models.Permission(strings.ToLower(strings.TrimSpace(permission)))
	if !p.Valid() {
		return nil, ErrInvalidPermission
	}

	r, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if r.IsSystem {
		return nil, ErrSystemRole
	}

	perms := make([]models.Permission, 0, len(r.Permissions)+1)
	for _, granted := range r.Permissions {
		if granted != p {
			perms = append(perms, granted)
		}
	}
	if !r.Has(p) {
		perms = append(perms, p)
	}

	if err := s.repo.SetRolePermissions(ctx, r.ID, perms); err != nil {
		return nil, fmt.Errorf("failed to toggle permission: %w", err)
	}
	r.Permissions = perms
	return r, nil
}

// AssignRole grants a role to a user
func (s *service) AssignRole(ctx context.Context, userID, roleID string) error {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	return s.repo.AssignRole(ctx, userID, roleID)
}

func parsePermissions(raw []string) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(raw))
	seen := make(map[models.Permission]bool, len(raw))
	for _, s := range raw {
		p := models.Permission(strings.ToLower(strings.TrimSpace(s)))
		if !p.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPermission, s)
		}
		if !seen[p] {
			seen[p] = true
			perms = append(perms, p)
		}
	}
	return perms, nil
}
