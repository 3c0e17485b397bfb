package api

import (
	"net/http"

	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/services/tag"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.TagService.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TagsToDtos(list))
}

func (s *Server) getTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.app.TagService.GetTag(r.Context(), types.TagID(id))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TagToDto(*t))
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTagRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.app.TagService.CreateTag(r.Context(), tag.CreateTagRequest{Name: req.Name, Color: req.Color})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.TagToDto(*created))
}

func (s *Server) updateTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.UpdateTagRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.app.TagService.UpdateTag(r.Context(), types.TagID(id), tag.UpdateTagRequest{Name: req.Name, Color: req.Color})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TagToDto(*updated))
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.TagService.DeleteTag(r.Context(), types.TagID(id)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
