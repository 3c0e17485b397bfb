package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/database"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/services/assignee"
	"github.com/MahdiIsse/project-management-sub001/internal/services/column"
	"github.com/MahdiIsse/project-management-sub001/internal/services/tag"
	"github.com/MahdiIsse/project-management-sub001/internal/services/task"
	"github.com/MahdiIsse/project-management-sub001/internal/services/workspace"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
)

// Error codes of the JSON error body
const (
	CodeValidation       = "validation_error"
	CodeNotAuthenticated = "not_authenticated"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
	CodeUnavailable      = "unavailable"
)

// errBadRequest marks malformed input caught by the handlers themselves
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

var validationErrors = []error{
	errBadRequest,
	models.ErrInvalidPriority,

	workspace.ErrEmptyTitle, workspace.ErrTitleTooLong, workspace.ErrInvalidWorkspaceID, workspace.ErrInvalidColor,
	column.ErrEmptyTitle, column.ErrTitleTooLong, column.ErrInvalidColumnID, column.ErrInvalidWorkspaceID, column.ErrInvalidColor,
	task.ErrEmptyTitle, task.ErrTitleTooLong, task.ErrInvalidTaskID, task.ErrInvalidColumnID, task.ErrInvalidWorkspaceID,
	task.ErrInvalidAssigneeID, task.ErrInvalidTagID, task.ErrColumnOutsideWorkspace,
	tag.ErrEmptyName, tag.ErrNameTooLong, tag.ErrInvalidTagID, tag.ErrInvalidColor,
	assignee.ErrEmptyName, assignee.ErrNameTooLong, assignee.ErrInvalidAssigneeID, assignee.ErrInvalidAvatarURL,

	storage.ErrNotImage, storage.ErrTooLarge, storage.ErrEmptyFile, storage.ErrInvalidPath,
}

var notFoundErrors = []error{
	database.ErrNotFound,
	workspace.ErrWorkspaceNotFound,
	column.ErrColumnNotFound, column.ErrWorkspaceNotFound,
	task.ErrTaskNotFound, task.ErrColumnNotFound, task.ErrRelatedNotFound,
	tag.ErrTagNotFound,
	assignee.ErrAssigneeNotFound,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Classify maps a service error to its HTTP status and error code
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return http.StatusUnauthorized, CodeNotAuthenticated
	case isAny(err, validationErrors):
		return http.StatusBadRequest, CodeValidation
	case isAny(err, notFoundErrors):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, assignee.ErrNoStorage):
		return http.StatusServiceUnavailable, CodeUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

// writeError sends the {"error","code"} body. Internal errors are logged and
// their text is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := Classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, dto.ErrorResponse{Error: msg, Code: code})
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// pathID reads an integer route variable. The routes only match digits, so
// a failure here means a route was registered without the pattern.
func pathID(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}
