package cli

import (
	"errors"

	"github.com/teamsync/teamsync/internal/config"
	"github.com/teamsync/teamsync/internal/models"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, missing configuration,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or unknown commands.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Unknown role names, user ids that do not exist.
	ExitNotFound = 3

	// ExitDataErr indicates the data conflicts with what is stored.
	// Use for: Duplicate emails, duplicate role names.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Malformed emails, short passwords, unknown permissions.
	ExitValidation = 5
)

// ExitCodeFor classifies err by its kind
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, config.ErrMissingDatabaseURL):
		return ExitError
	case errors.Is(err, models.ErrInvalid):
		return ExitValidation
	case errors.Is(err, models.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, models.ErrDuplicate), errors.Is(err, models.ErrConflict):
		return ExitDataErr
	}
	return ExitError
}
