package task

import (
	"fmt"

	"github.com/teamsync/teamsync/internal/models"
)

// Task-related errors
var (
	// Validation errors
	ErrInvalidTaskID    = fmt.Errorf("%w: invalid task ID", models.ErrInvalid)
	ErrInvalidBoardID   = fmt.Errorf("%w: invalid board ID", models.ErrInvalid)
	ErrInvalidUserID    = fmt.Errorf("%w: invalid user ID", models.ErrInvalid)
	ErrEmptyTitle       = fmt.Errorf("%w: task title cannot be empty", models.ErrInvalid)
	ErrTitleTooLong     = fmt.Errorf("%w: task title cannot exceed %d characters", models.ErrInvalid, models.MaxTitleLength)
	ErrEmptyType        = fmt.Errorf("%w: task type cannot be empty", models.ErrInvalid)
	ErrTypeTooLong      = fmt.Errorf("%w: task type cannot exceed %d characters", models.ErrInvalid, models.MaxNameLength)
	ErrInvalidPriority  = fmt.Errorf("%w: priority must be one of low, medium, high, critical", models.ErrInvalid)
	ErrInvalidDueDate   = fmt.Errorf("%w: due date must be RFC3339 or YYYY-MM-DD", models.ErrInvalid)
	ErrInvalidStatus    = fmt.Errorf("%w: status must name a column of the task's board", models.ErrInvalid)
	ErrInvalidColumnID  = fmt.Errorf("%w: column does not belong to the board", models.ErrInvalid)
	ErrUnknownField     = fmt.Errorf("%w: unknown task field", models.ErrInvalid)
	ErrUnknownAssignee  = fmt.Errorf("%w: assignee does not exist", models.ErrInvalid)
	ErrBoardHasNoColumn = fmt.Errorf("%w: board has no columns", models.ErrInvalid)

	// Label validation errors
	ErrEmptyLabel   = fmt.Errorf("%w: label cannot be empty", models.ErrInvalid)
	ErrLabelTooLong = fmt.Errorf("%w: label cannot exceed %d characters", models.ErrInvalid, models.MaxNameLength)

	// Subtask validation errors
	ErrEmptySubtaskTitle   = fmt.Errorf("%w: subtask title cannot be empty", models.ErrInvalid)
	ErrSubtaskTitleTooLong = fmt.Errorf("%w: subtask title cannot exceed %d characters", models.ErrInvalid, models.MaxTitleLength)

	// Comment validation errors
	ErrEmptyComment   = fmt.Errorf("%w: comment cannot be empty", models.ErrInvalid)
	ErrCommentTooLong = fmt.Errorf("%w: comment cannot exceed %d characters", models.ErrInvalid, models.MaxCommentLength)

	// Attachment validation errors
	ErrEmptyAttachment    = fmt.Errorf("%w: attachment is empty", models.ErrInvalid)
	ErrAttachmentTooLarge = fmt.Errorf("%w: attachment exceeds the upload limit", models.ErrInvalid)
)

// Business logic errors
var (
	ErrLabelExists          = fmt.Errorf("label already %w on this task", models.ErrDuplicate)
	ErrCannotRemoveReporter = fmt.Errorf("%w: the reporter cannot be removed from observers, they may leave instead", models.ErrForbidden)
	ErrNoInProgressColumn   = fmt.Errorf("%w: board has no in-progress column to accept into", models.ErrInvalid)
	ErrSubtaskNotFound      = fmt.Errorf("subtask %w", models.ErrNotFound)
	ErrCommentNotFound      = fmt.Errorf("comment %w", models.ErrNotFound)
	ErrAttachmentNotFound   = fmt.Errorf("attachment %w", models.ErrNotFound)
	ErrNotObserving         = fmt.Errorf("observer %w", models.ErrNotFound)
)
