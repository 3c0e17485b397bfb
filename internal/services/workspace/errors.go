package workspace

import "errors"

// Workspace-related errors
var (
	// Validation errors
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title cannot exceed 100 characters")
	ErrInvalidWorkspaceID = errors.New("invalid workspace ID")
	ErrInvalidColor       = errors.New("color must be a #RRGGBB hex value")

	// Business logic errors
	ErrWorkspaceNotFound = errors.New("workspace not found")
)
