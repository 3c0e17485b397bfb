package api

import (
	"errors"
	"net/http"

	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/services/account"
)

// Procedures answer 200 with success=false when they fail on their own
// terms. Only auth and unexpected errors use an error status.

func (s *Server) cleanupUserData(w http.ResponseWriter, r *http.Request) {
	s.procedure(w, r, s.app.AccountService.CleanupUserData(r.Context()))
}

func (s *Server) seedOnboardingData(w http.ResponseWriter, r *http.Request) {
	s.procedure(w, r, s.app.AccountService.SeedOnboardingData(r.Context()))
}

func (s *Server) procedure(w http.ResponseWriter, r *http.Request, err error) {
	var procErr *account.ProcedureError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, dto.RPCResult{Success: true})
	case errors.As(err, &procErr):
		writeJSON(w, http.StatusOK, dto.RPCResult{Success: false, Error: procErr.Message, ErrorCode: procErr.Code})
	default:
		writeError(w, r, err)
	}
}
