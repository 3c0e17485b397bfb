package models

import "errors"

// Domain-specific errors for keyboard reordering on the board
var (
	ErrAlreadyFirstColumn = errors.New("already at first column")
	ErrAlreadyLastColumn  = errors.New("already at last column")
	ErrAlreadyFirstTask   = errors.New("task is already at the top of the column")
	ErrAlreadyLastTask    = errors.New("task is already at the bottom of the column")
)
