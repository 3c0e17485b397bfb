package cli

import (
	"errors"
	"net/http"

	"github.com/MahdiIsse/project-management-sub001/internal/api"
	"github.com/MahdiIsse/project-management-sub001/internal/apiclient"
	"github.com/MahdiIsse/project-management-sub001/internal/board"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, authentication failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Workspace, column, task, tag or assignee ids that don't exist.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable files or answers the backend could not decode.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty titles, bad colours, unknown priorities, moves past
	// the edge of the board.
	ExitValidation = 5
)

// CodedError carries an explicit exit code for an error the command has
// already reported
type CodedError struct {
	Code int
	Err  error
}

func (e *CodedError) Error() string { return e.Err.Error() }
func (e *CodedError) Unwrap() error { return e.Err }

var validationErrors = []error{
	board.ErrEmptyTitle, board.ErrTitleTooLong, board.ErrInvalidColor, board.ErrInvalidTarget,
	board.ErrParentNotCached,
	models.ErrAlreadyFirstColumn, models.ErrAlreadyLastColumn, models.ErrAlreadyFirstTask, models.ErrAlreadyLastTask,
	models.ErrInvalidPriority,
	apiclient.ErrValidation,
}

// ExitCode picks the process exit code for err
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *CodedError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ExitValidation
		}
	}
	if errors.Is(err, apiclient.ErrNotFound) {
		return ExitNotFound
	}

	switch status, _ := api.Classify(err); status {
	case http.StatusBadRequest:
		return ExitValidation
	case http.StatusNotFound:
		return ExitNotFound
	default:
		return ExitError
	}
}

// ErrorCode is the machine-readable code printed with a failure
func ErrorCode(err error) string {
	switch ExitCode(err) {
	case ExitUsage:
		return "USAGE_ERROR"
	case ExitNotFound:
		return "NOT_FOUND"
	case ExitDataErr:
		return "DATA_ERROR"
	case ExitValidation:
		return "VALIDATION_ERROR"
	}
	if status, _ := api.Classify(err); status == http.StatusUnauthorized {
		return "NOT_AUTHENTICATED"
	}
	return "ERROR"
}
