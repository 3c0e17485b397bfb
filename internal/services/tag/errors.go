package tag

import "errors"

var (
	ErrEmptyName    = errors.New("tag name cannot be empty")
	ErrNameTooLong  = errors.New("tag name cannot exceed 100 characters")
	ErrInvalidTagID = errors.New("invalid tag ID")
	ErrInvalidColor = errors.New("color must be a palette name or a #RRGGBB hex value")
	ErrTagNotFound  = errors.New("tag not found")
)
