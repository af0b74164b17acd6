package column

import (
	"fmt"

	"github.com/teamsync/teamsync/internal/board"
	"github.com/teamsync/teamsync/internal/models"
)

// Board and column errors
var (
	// Validation errors
	ErrInvalidBoardID   = fmt.Errorf("%w: invalid board ID", models.ErrInvalid)
	ErrInvalidProjectID = fmt.Errorf("%w: invalid project ID", models.ErrInvalid)
	ErrEmptyBoardName   = fmt.Errorf("%w: board name cannot be empty", models.ErrInvalid)
	ErrBoardNameTooLong = fmt.Errorf("%w: board name cannot exceed %d characters", models.ErrInvalid, models.MaxTitleLength)
	ErrInvalidMove      = fmt.Errorf("%w: move needs a task or a source position", models.ErrInvalid)

	// Business logic errors
	ErrNotATemplate   = fmt.Errorf("%w: source board is not a template", models.ErrInvalid)
	ErrTaskNotOnBoard = board.ErrTaskNotOnBoard
)
