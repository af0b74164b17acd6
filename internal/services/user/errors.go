package user

import (
	"fmt"

	"github.com/teamsync/teamsync/internal/models"
)

// Domain errors for user service
var (
	// Validation errors
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email address", models.ErrInvalid)
	ErrEmptyName        = fmt.Errorf("%w: name cannot be empty", models.ErrInvalid)
	ErrNameTooLong      = fmt.Errorf("%w: name cannot exceed %d characters", models.ErrInvalid, models.MaxTitleLength)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters", models.ErrInvalid, minPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("%w: password cannot exceed 72 bytes", models.ErrInvalid)
	ErrAvatarNotImage   = fmt.Errorf("%w: avatar must be an image", models.ErrInvalid)
	ErrAvatarTooLarge   = fmt.Errorf("%w: avatar exceeds the upload limit", models.ErrInvalid)
	ErrEmptyAvatar      = fmt.Errorf("%w: avatar is empty", models.ErrInvalid)

	// Business logic errors
	ErrEmailTaken         = fmt.Errorf("email %w", models.ErrDuplicate)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)
	ErrNotAllowed         = fmt.Errorf("%w: only the user or an administrator may do this", models.ErrForbidden)
)
