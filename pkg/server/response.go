package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error     errs.Code `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "status", status, "error", err)
	}
}

// writeError maps err to a status code. Validation errors expose their
// message; anything else is logged and reported as an internal error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error:     errs.GetCode(err),
		Message:   errs.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", resp.RequestID, "error", err)
		resp.Error = errs.ErrCodeInternal
		resp.Message = "internal error"
	}
	s.writeJSON(w, status, resp)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errs.IsValidation(err), errs.Is(err, errs.ErrCodeUnsupported):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrCodeNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
