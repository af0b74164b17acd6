package role

import (
	"fmt"

	"github.com/teamsync/teamsync/internal/models"
)

// Domain errors for role service
var (
	// Validation errors
	ErrEmptyName         = fmt.Errorf("%w: role name cannot be empty", models.ErrInvalid)
	ErrNameTooLong       = fmt.Errorf("%w: role name cannot exceed 100 characters", models.ErrInvalid)
	ErrInvalidPermission = fmt.Errorf("%w: unknown permission", models.ErrInvalid)

	// Business logic errors
	ErrSystemRole = fmt.Errorf("%w: system roles cannot be modified", models.ErrForbidden)
	ErrRoleExists = fmt.Errorf("role %w", models.ErrDuplicate)
)
