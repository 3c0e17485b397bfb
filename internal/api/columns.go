package api

import (
	"net/http"

	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/services/column"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

func (s *Server) listColumns(w http.ResponseWriter, r *http.Request) {
	wsID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.app.ColumnService.ListColumns(r.Context(), types.WorkspaceID(wsID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ColumnsToDtos(list))
}

func (s *Server) createColumn(w http.ResponseWriter, r *http.Request) {
	wsID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.CreateColumnRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.app.ColumnService.CreateColumn(r.Context(), column.CreateColumnRequest{
		WorkspaceID: types.WorkspaceID(wsID),
		Title:       req.Title,
		Color:       req.Color,
		Position:    req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.ColumnToDto(*created))
}

func (s *Server) updateColumn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.UpdateColumnRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.app.ColumnService.UpdateColumn(r.Context(), types.ColumnID(id), column.UpdateColumnRequest{
		Title: req.Title,
		Color: req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ColumnToDto(*updated))
}

func (s *Server) deleteColumn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.ColumnService.DeleteColumn(r.Context(), types.ColumnID(id)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateColumnPositions(w http.ResponseWriter, r *http.Request) {
	wsID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req []dto.ColumnPositionDto
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.ColumnService.UpdateColumnPositions(r.Context(), types.WorkspaceID(wsID), dto.ColumnPositionsToModels(req)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
