package project

import (
	"fmt"

	"github.com/teamsync/teamsync/internal/models"
)

// Domain errors for project service
var (
	// Validation errors
	ErrEmptyName        = fmt.Errorf("%w: project name cannot be empty", models.ErrInvalid)
	ErrNameTooLong      = fmt.Errorf("%w: project name cannot exceed %d characters", models.ErrInvalid, models.MaxTitleLength)
	ErrInvalidProjectID = fmt.Errorf("%w: invalid project ID", models.ErrInvalid)
	ErrInvalidOwnerID   = fmt.Errorf("%w: invalid owner ID", models.ErrInvalid)
	ErrInvalidStatus    = fmt.Errorf("%w: status must be one of active, paused, completed, archived", models.ErrInvalid)
	ErrInvalidPriority  = fmt.Errorf("%w: priority must be one of low, medium, high, critical", models.ErrInvalid)
	ErrInvalidColor     = fmt.Errorf("%w: color must look like #RRGGBB", models.ErrInvalid)
)
