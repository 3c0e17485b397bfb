package assignee

import "errors"

var (
	ErrEmptyName         = errors.New("assignee name cannot be empty")
	ErrNameTooLong       = errors.New("assignee name cannot exceed 100 characters")
	ErrInvalidAssigneeID = errors.New("invalid assignee ID")
	ErrInvalidAvatarURL  = errors.New("avatar URL must be an http(s) URL")
	ErrAssigneeNotFound  = errors.New("assignee not found")
	ErrNoStorage         = errors.New("avatar storage is not configured")
)
