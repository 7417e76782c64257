// Package handlers provides HTTP request handlers for the userledger service.
package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/middleware"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
)

// maxBodyBytes limits request bodies to 1MB.
const maxBodyBytes = 1048576

// ErrorResponse is the unified error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, logger *logging.Logger, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response",
			logging.FieldError, err,
			"status_code", statusCode,
		)
	}
}

// writeError maps a service error to the unified error response. Errors
// without a classified kind are reported as a storage failure so internal
// detail never leaks to clients.
func writeError(w http.ResponseWriter, logger *logging.Logger, err error) {
	appErr, ok := pkgerrors.Get(err)
	if !ok {
		appErr = pkgerrors.NewUnavailable(pkgerrors.ErrCodeStorageFailed, "Service temporarily unavailable")
	}
	writeJSON(w, logger, appErr.GetHTTPStatus(), ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}

// validateContentType requires an application/json request body.
func validateContentType(r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Content-Type header is required")
	}

	// Handle content types like "application/json; charset=utf-8"
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Invalid Content-Type header format")
	}

	if mediaType != "application/json" {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Content-Type must be application/json")
	}
	return nil
}

// parseJSONBody reads a size-limited request body into dst.
func parseJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Request body cannot be empty")
	}

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Failed to read request body")
	}

	if len(body) == 0 {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Request body cannot be empty")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Invalid JSON format")
	}

	return nil
}

// extractRequestID pulls the request ID placed in context by the middleware.
func extractRequestID(r *http.Request) string {
	if reqID := middleware.GetRequestID(r.Context()); reqID != "" {
		return reqID
	}
	return "unknown"
}
