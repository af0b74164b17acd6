package team

import (
	"fmt"

	"github.com/teamsync/teamsync/internal/models"
)

// Domain errors for team service
var (
	ErrEmptyName   = fmt.Errorf("%w: team name cannot be empty", models.ErrInvalid)
	ErrNameTooLong = fmt.Errorf("%w: team name cannot exceed %d characters", models.ErrInvalid, models.MaxTitleLength)
	ErrTeamExists  = fmt.Errorf("team %w", models.ErrDuplicate)
	ErrNotAMember  = fmt.Errorf("team member %w", models.ErrNotFound)
)
