package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dfirmansy/userledger/internal/logging"
)

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// ErrorHandler middleware recovers from panics and formats otherwise-empty
// error responses as consistent JSON.
type ErrorHandler struct {
	next   http.Handler
	logger *logging.Logger
}

// NewErrorHandler creates a new error handler middleware
func NewErrorHandler(logger *logging.Logger, next http.Handler) *ErrorHandler {
	return &ErrorHandler{
		next:   next,
		logger: logger,
	}
}

// ServeHTTP implements the http.Handler interface with panic recovery
func (eh *ErrorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wrapped := NewResponseWriter(w)

	defer func() {
		if rec := recover(); rec != nil {
			eh.logger.Error("Panic recovered in error handler", "panic", rec, "path", r.URL.Path)
			eh.handleError(w, http.StatusInternalServerError, "Internal server error")
		}
	}()

	eh.next.ServeHTTP(wrapped, r)

	// Only format error statuses where the handler wrote no body, so
	// custom error responses are never overwritten.
	if wrapped.StatusCode() >= 400 && !wrapped.HasBody() {
		eh.handleError(w, wrapped.StatusCode(), "Request failed")
	}
}

// handleError writes a JSON error response if headers have not been sent
func (eh *ErrorHandler) handleError(w http.ResponseWriter, statusCode int, message string) {
	defer func() {
		if rec := recover(); rec != nil {
			// Headers were already written; nothing more to do.
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		eh.logger.Error("Failed to encode error response", logging.FieldError, err)
	}
}
