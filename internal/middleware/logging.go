package middleware

import (
	"net/http"
	"time"

	"github.com/dfirmansy/userledger/internal/logging"
)

// LoggingMiddleware logs HTTP requests using structured logging
type LoggingMiddleware struct {
	next   http.Handler
	logger *logging.Logger
}

// NewLoggingMiddleware creates a new structured logging middleware
func NewLoggingMiddleware(logger *logging.Logger, next http.Handler) *LoggingMiddleware {
	return &LoggingMiddleware{
		next:   next,
		logger: logger,
	}
}

// ServeHTTP implements the http.Handler interface with structured logging
func (lm *LoggingMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := GetRequestID(r.Context())

	wrapped := NewResponseWriter(w)
	lm.next.ServeHTTP(wrapped, r)

	lm.logger.Request(
		reqID,
		r.Method,
		r.URL.Path,
		wrapped.StatusCode(),
		time.Since(start).Milliseconds(),
	)
}
