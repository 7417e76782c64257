// Package errors provides the userledger error vocabulary.
// Every failure the service surfaces carries a stable kind and code,
// following the unified error response format {"error": "message", "code": "ERROR_CODE"}.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the stable failure categories.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindValidation         Kind = "VALIDATION"
	KindDuplicate          Kind = "DUPLICATE"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindRateLimited        Kind = "RATE_LIMITED"
	KindUnavailable        Kind = "COLLABORATOR_UNAVAILABLE"
)

// Error codes used across the service.
const (
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeTransferNotFound   = "TRANSFER_NOT_FOUND"
	ErrCodeEmailAlreadyTaken  = "EMAIL_ALREADY_TAKEN"
	ErrCodePasswordMismatch   = "PASSWORD_CONFIRMATION_MISMATCH"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTooManyAttempts    = "TOO_MANY_FAILED_ATTEMPTS"
	ErrCodeStorageFailed      = "STORAGE_UNAVAILABLE"
	ErrCodeAuthFailed         = "AUTHENTICATOR_UNAVAILABLE"
)

// Error is the service-wide error type with HTTP status mapping.
type Error struct {
	Kind       Kind   `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GetHTTPStatus returns the HTTP status code for the error.
func (e *Error) GetHTTPStatus() int {
	return e.HTTPStatus
}

// NewNotFound creates a not found error (404 Not Found).
func NewNotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message, HTTPStatus: http.StatusNotFound}
}

// NewValidation creates a validation error (400 Bad Request).
func NewValidation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewDuplicate creates a duplicate resource error (409 Conflict).
func NewDuplicate(code, message string) *Error {
	return &Error{Kind: KindDuplicate, Code: code, Message: message, HTTPStatus: http.StatusConflict}
}

// NewInvalidCredentials creates an authentication failure (401 Unauthorized).
func NewInvalidCredentials(message string) *Error {
	return &Error{Kind: KindInvalidCredentials, Code: ErrCodeInvalidCredentials, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewRateLimited creates a lockout rejection (429 Too Many Requests).
func NewRateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Code: ErrCodeTooManyAttempts, Message: message, HTTPStatus: http.StatusTooManyRequests}
}

// NewUnavailable creates a collaborator failure (503 Service Unavailable).
// Used when storage or the authenticator fails for reasons unrelated to
// business rules; never conflated with not-found or wrong credentials.
func NewUnavailable(code, message string) *Error {
	return &Error{Kind: KindUnavailable, Code: code, Message: message, HTTPStatus: http.StatusServiceUnavailable}
}

// Get extracts an *Error from err, unwrapping as needed.
func Get(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := Get(err); ok {
		return e.Kind == kind
	}
	return false
}
