package models

import "errors"

// Error kinds. Domain errors wrap one of these so callers can classify them
// with errors.Is without knowing every sentinel.
var (
	// ErrInvalid marks input that fails validation or a business rule
	ErrInvalid = errors.New("invalid input")

	// ErrNotFound indicates the referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint would be violated
	ErrDuplicate = errors.New("already exists")

	// ErrConflict indicates the entity changed since it was read
	ErrConflict = errors.New("modified concurrently")

	// ErrForbidden indicates the acting user may not perform the operation
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized indicates missing or wrong credentials
	ErrUnauthorized = errors.New("unauthorized")
)
