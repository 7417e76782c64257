package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dfirmansy/userledger/internal/logging"
)

// HealthCheckResponse represents the structured health check response format.
type HealthCheckResponse struct {
	Status        string                 `json:"status"` // healthy|unhealthy
	Timestamp     int64                  `json:"timestamp"`
	Service       string                 `json:"service"`
	Version       string                 `json:"version"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	Checks        map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents an individual health check result with timing.
type HealthCheck struct {
	Status         string `json:"status"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Error          string `json:"error,omitempty"`
}

// HealthChecker is a component that can report its own health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
	Name() string
}

// HealthHandler reports overall service health.
type HealthHandler struct {
	checkers  []HealthChecker
	startTime time.Time
	version   string
	service   string
	mu        sync.RWMutex
	logger    *logging.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service, version string, logger *logging.Logger) *HealthHandler {
	return &HealthHandler{
		checkers:  make([]HealthChecker, 0),
		startTime: time.Now(),
		version:   version,
		service:   service,
		logger:    logger,
	}
}

// AddChecker registers a health checker.
func (h *HealthHandler) AddChecker(checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers = append(h.checkers, checker)
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Quick liveness probe without running the checkers.
	if r.URL.Query().Get("ping") == "true" {
		writeJSON(w, h.logger, http.StatusOK, map[string]string{
			"status": "ok",
			"ping":   "pong",
		})
		return
	}

	response := HealthCheckResponse{
		Timestamp:     time.Now().Unix(),
		Service:       h.service,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        make(map[string]HealthCheck),
	}

	h.mu.RLock()
	checkers := make([]HealthChecker, len(h.checkers))
	copy(checkers, h.checkers)
	h.mu.RUnlock()

	allHealthy := true
	for _, checker := range checkers {
		start := time.Now()
		err := checker.CheckHealth(ctx)
		check := HealthCheck{
			Status:         logging.StatusHealthy,
			ResponseTimeMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			allHealthy = false
			check.Status = logging.StatusUnhealthy
			check.Error = err.Error()
			h.logger.Warn("Health check failed",
				logging.FieldCheckName, checker.Name(),
				logging.FieldError, err,
			)
		}
		response.Checks[checker.Name()] = check
	}

	statusCode := http.StatusOK
	response.Status = logging.StatusHealthy
	if !allHealthy {
		statusCode = http.StatusServiceUnavailable
		response.Status = logging.StatusUnhealthy
	}

	writeJSON(w, h.logger, statusCode, response)
}
