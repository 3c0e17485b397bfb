package task

import "errors"

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle         = errors.New("task title cannot be empty")
	ErrTitleTooLong       = errors.New("task title cannot exceed 255 characters")
	ErrInvalidTaskID      = errors.New("invalid task ID")
	ErrInvalidColumnID    = errors.New("invalid column ID")
	ErrInvalidWorkspaceID = errors.New("invalid workspace ID")
	ErrInvalidAssigneeID  = errors.New("invalid assignee ID")
	ErrInvalidTagID       = errors.New("invalid tag ID")

	// Business logic errors
	ErrTaskNotFound           = errors.New("task not found")
	ErrColumnNotFound         = errors.New("column not found")
	ErrRelatedNotFound        = errors.New("assignee or tag not found")
	ErrColumnOutsideWorkspace = errors.New("column belongs to a different workspace")
)
