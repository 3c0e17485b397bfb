package column

import "errors"

// Column-related errors
var (
	// Validation errors
	ErrEmptyTitle         = errors.New("column title cannot be empty")
	ErrTitleTooLong       = errors.New("column title cannot exceed 100 characters")
	ErrInvalidColumnID    = errors.New("invalid column ID")
	ErrInvalidWorkspaceID = errors.New("invalid workspace ID")
	ErrInvalidColor       = errors.New("color must be a #RRGGBB hex value")

	// Business logic errors
	ErrColumnNotFound    = errors.New("column not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)
