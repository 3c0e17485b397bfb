package api

import (
	"net/http"

	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/services/assignee"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

// avatarField is the multipart form field carrying the image
const avatarField = "avatar"

func (s *Server) listAssignees(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.AssigneeService.ListAssignees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AssigneesToDtos(list))
}

func (s *Server) getAssignee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.app.AssigneeService.GetAssignee(r.Context(), types.AssigneeID(id))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AssigneeToDto(*a))
}

func (s *Server) createAssignee(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssigneeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.app.AssigneeService.CreateAssignee(r.Context(), assignee.CreateAssigneeRequest{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.AssigneeToDto(*created))
}

func (s *Server) updateAssignee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dto.UpdateAssigneeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := s.app.AssigneeService.UpdateAssignee(r.Context(), types.AssigneeID(id), assignee.UpdateAssigneeRequest{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AssigneeToDto(*updated))
}

func (s *Server) deleteAssignee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.app.AssigneeService.DeleteAssignee(r.Context(), types.AssigneeID(id)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadAvatar stores a multipart image in the bucket and points the
// assignee at its public URL
func (s *Server) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit := storage.DefaultMaxSize
	if b := s.app.Bucket(); b != nil {
		limit = b.MaxSize()
	}
	// Leave room for the multipart framing around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)
	file, header, err := r.FormFile(avatarField)
	if err != nil {
		writeError(w, r, badRequest("expected an image in form field %q: %v", avatarField, err))
		return
	}
	defer file.Close()

	updated, err := s.app.AssigneeService.UploadAvatar(r.Context(), types.AssigneeID(id), header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AssigneeToDto(*updated))
}
