package api

import (
	"fmt"
	"net/http"
)

// handleCreateProgram handles POST /programs.
func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ProgramCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, parseErrors, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create session: %v", err))
		return
	}
	if parseErrors != nil {
		writeJSON(w, http.StatusBadRequest, ParseErrorResponse{Errors: parseErrors})
		return
	}

	writeJSON(w, http.StatusCreated, ProgramCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleListPrograms handles GET /programs.
func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	})
}

// handleRun handles POST /programs/{id}/run.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	pc, runErr := session.Service.Run()
	resp := RunResponse{PC: pc, State: session.Service.StateName()}
	if runErr != nil {
		resp.Error = runErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStep handles POST /programs/{id}/step.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	stepErr := session.Service.Step()
	resp := StepResponse{PC: session.Service.PC(), State: session.Service.StateName()}
	if stepErr != nil {
		resp.Error = stepErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReset handles POST /programs/{id}/reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	session.Service.Reset()
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "session reset"})
}

// handleStore handles GET /programs/{id}/store.
func (s *Server) handleStore(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, StoreResponse{Variables: session.Service.Store()})
}

// handleDestroyProgram handles DELETE /programs/{id}.
func (s *Server) handleDestroyProgram(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "session destroyed"})
}

