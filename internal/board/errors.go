package board

import (
	"fmt"

	"github.com/teamsync/teamsync/internal/models"
)

// Board errors
var (
	// Validation errors
	ErrIndexOutOfRange     = fmt.Errorf("%w: index out of range", models.ErrInvalid)
	ErrEmptyColumnName     = fmt.Errorf("%w: column name cannot be empty", models.ErrInvalid)
	ErrColumnNameTooLong   = fmt.Errorf("%w: column name cannot exceed %d characters", models.ErrInvalid, models.MaxNameLength)
	ErrUnknownIntent       = fmt.Errorf("%w: unknown board intent", models.ErrInvalid)
	ErrInvalidTargetColumn = fmt.Errorf("%w: target column must differ from the deleted column", models.ErrInvalid)

	// Business logic errors
	ErrColumnNotFound      = fmt.Errorf("column %w", models.ErrNotFound)
	ErrTaskNotOnBoard      = fmt.Errorf("task %w on this board", models.ErrNotFound)
	ErrDuplicateColumnName = fmt.Errorf("column name %w on this board", models.ErrDuplicate)
	ErrLastColumn          = fmt.Errorf("%w: cannot delete the last column of a board", models.ErrInvalid)
	ErrColumnNotEmpty      = fmt.Errorf("%w: column has tasks, choose a target column for them", models.ErrInvalid)
)
