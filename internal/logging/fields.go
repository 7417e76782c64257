// Package logging provides standard field definitions for structured logging
package logging

// Standard log field names shared across the service.
const (
	FieldTimestamp  = "ts"
	FieldLevel      = "level"
	FieldMessage    = "msg"
	FieldRequestID  = "req_id"
	FieldHTTPMethod = "method"
	FieldHTTPPath   = "path"
	FieldHTTPStatus = "status"
	FieldLatencyMs  = "latency_ms"
	FieldService    = "service"
	FieldVersion    = "version"
	FieldUptimeSec  = "uptime_seconds"
	FieldError      = "error"
	FieldCheckName  = "check_name"

	// Health check statuses
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)
