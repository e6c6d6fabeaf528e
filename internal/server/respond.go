package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lodgrid/pkg/errors"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode failure has nowhere to go.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError logs err at a level matching its status and writes the JSON
// error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}

	logger := s.logger.With(
		"id", middleware.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"code", code)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "err", err)
	default:
		logger.Debug("request rejected", "err", err)
	}

	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: code, Message: msg, Code: status})
}

func statusFor(err error) int {
	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) {
		return http.StatusTooManyRequests
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeSubdivisionImpossible, errors.ErrCodeGenerationNotPossible:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeListSizeMismatch, errors.ErrCodeInvalidConfiguration,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
