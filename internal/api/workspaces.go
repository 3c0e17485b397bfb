package api

import (
	"net/http"

	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/services/workspace"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

func (s *Server) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.WorkspaceService.ListWorkspaces(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.WorkspacesToDtos(list))
}

func (s *Server) getWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ws, err := s.app.WorkspaceService.GetWorkspace(r.Context(), types.WorkspaceID(id))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.WorkspaceToDto(*ws))
}

func (s *Server) createWorkspace(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWorkspaceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.app.WorkspaceService.CreateWorkspace(r.Context(), workspace.CreateWorkspaceRequest{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Position:    req.Position,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.WorkspaceToDto(*created))
}

func (s *Server) updateWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.UpdateWorkspaceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.app.WorkspaceService.UpdateWorkspace(r.Context(), types.WorkspaceID(id), workspace.UpdateWorkspaceRequest{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.WorkspaceToDto(*updated))
}

func (s *Server) deleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.WorkspaceService.DeleteWorkspace(r.Context(), types.WorkspaceID(id)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateWorkspacePositions(w http.ResponseWriter, r *http.Request) {
	var req []dto.WorkspacePositionDto
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.WorkspaceService.UpdateWorkspacePositions(r.Context(), dto.WorkspacePositionsToModels(req)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
