package api

import (
	"time"

	"github.com/aunetx/libmoon/service"
)

// ProgramCreateRequest is the body of POST /programs: the Moon source
// to parse and run in a new session.
type ProgramCreateRequest struct {
	Source string `json:"source"`
	Sigil  string `json:"sigil,omitempty"` // single-character variable sigil, default "&"
}

// ProgramCreateResponse is returned from POST /programs.
type ProgramCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParseErrorResponse is returned from POST /programs when the source
// fails to parse.
type ParseErrorResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

// RunResponse is returned from POST /programs/{id}/run.
type RunResponse struct {
	PC    int    `json:"pc"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// StepResponse is returned from POST /programs/{id}/step.
type StepResponse struct {
	PC    int    `json:"pc"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// StoreResponse is returned from GET /programs/{id}/store.
type StoreResponse struct {
	Variables map[string]service.CellSnapshot `json:"variables"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse is a simple acknowledgement body.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
