package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/filters"
	"github.com/MahdiIsse/project-management-sub001/internal/models"
	"github.com/MahdiIsse/project-management-sub001/internal/services/task"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// priorityParam reads a priority from a request body. Reads are lenient
// about unknown integers, writes are not.
func priorityParam(n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	if n < 1 || n > 3 {
		return "", fmt.Errorf("%w %d (must be 1, 2 or 3)", models.ErrInvalidPriority, n)
	}
	return models.PriorityFromBackend(n).String(), nil
}

// listTasks returns the workspace's tasks narrowed by the board filter
// query (?priorities=High,Low&assignees=1,2&search=text).
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	wsID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.app.TaskService.ListTasks(r.Context(), types.WorkspaceID(wsID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	list = filters.Apply(list, filters.Decode(r.URL.Query()))
	writeJSON(w, http.StatusOK, dto.TasksToDtos(list))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.app.TaskService.GetTask(r.Context(), types.TaskID(id))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TaskToDto(*t))
}

// createTask serves both POST /api/workspaces/{id}/tasks and POST
// /api/tasks. Without a workspace in the path the column decides it.
func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var wsID int
	if _, scoped := mux.Vars(r)["id"]; scoped {
		var err error
		if wsID, err = pathID(r, "id"); err != nil {
			writeError(w, r, err)
			return
		}
	}
	var req dto.CreateTaskRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	due, err := dto.ParseDate(req.DueDate)
	if err != nil {
		writeError(w, r, badRequest("invalid dueDate: %v", err))
		return
	}
	priority, err := priorityParam(req.Priority)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.app.TaskService.CreateTask(r.Context(), task.CreateTaskRequest{
		WorkspaceID: types.WorkspaceID(wsID),
		ColumnID:    types.ColumnID(req.ColumnID),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    priority,
		Position:    req.Position,
		AssigneeIDs: dto.TypedIDs[types.AssigneeID](req.AssigneeIDs),
		TagIDs:      dto.TypedIDs[types.TagID](req.TagIDs),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.TaskToDto(*created))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.UpdateTaskRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	due, err := dto.ParseDate(req.DueDate)
	if err != nil {
		writeError(w, r, badRequest("invalid dueDate: %v", err))
		return
	}

	update := task.UpdateTaskRequest{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      due,
		ClearDueDate: req.ClearDueDate,
	}
	if req.Priority != nil {
		p, err := priorityParam(*req.Priority)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if p == "" {
			p = models.DefaultPriority.String()
		}
		update.Priority = &p
	}
	if req.ColumnID != nil {
		col := types.ColumnID(*req.ColumnID)
		update.ColumnID = &col
	}

	updated, err := s.app.TaskService.UpdateTask(r.Context(), types.TaskID(id), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TaskToDto(*updated))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.TaskService.DeleteTask(r.Context(), types.TaskID(id)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateTaskPositions(w http.ResponseWriter, r *http.Request) {
	var req dto.TaskPositionsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := s.app.TaskService.UpdateTaskPositions(r.Context(), types.WorkspaceID(req.WorkspaceID), dto.TaskPositionsToModels(req.Positions))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// relation handles the four join-row endpoints. They all answer with the
// task as it is after the change.
func (s *Server) relation(w http.ResponseWriter, r *http.Request, otherVar string,
	apply func(taskID types.TaskID, other int) (*models.Task, error),
) {
	taskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	other, err := pathID(r, otherVar)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := apply(types.TaskID(taskID), other)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TaskToDto(*t))
}

func (s *Server) addAssignee(w http.ResponseWriter, r *http.Request) {
	s.relation(w, r, "assigneeId", func(id types.TaskID, other int) (*models.Task, error) {
		return s.app.TaskService.AddAssignee(r.Context(), id, types.AssigneeID(other))
	})
}

func (s *Server) removeAssignee(w http.ResponseWriter, r *http.Request) {
	s.relation(w, r, "assigneeId", func(id types.TaskID, other int) (*models.Task, error) {
		return s.app.TaskService.RemoveAssignee(r.Context(), id, types.AssigneeID(other))
	})
}

func (s *Server) addTag(w http.ResponseWriter, r *http.Request) {
	s.relation(w, r, "tagId", func(id types.TaskID, other int) (*models.Task, error) {
		return s.app.TaskService.AddTag(r.Context(), id, types.TagID(other))
	})
}

func (s *Server) removeTag(w http.ResponseWriter, r *http.Request) {
	s.relation(w, r, "tagId", func(id types.TaskID, other int) (*models.Task, error) {
		return s.app.TaskService.RemoveTag(r.Context(), id, types.TagID(other))
	})
}
