package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
	err  error
}

func (s *stubChecker) Name() string                          { return s.name }
func (s *stubChecker) CheckHealth(ctx context.Context) error { return s.err }

func newTestHealthHandler() *HealthHandler {
	logger := logging.NewStructuredLogger("error", "userledger", "test")
	return NewHealthHandler("userledger", "1.0.0", logger)
}

func TestHealthPingShortcut(t *testing.T) {
	handler := newTestHealthHandler()
	handler.AddChecker(&stubChecker{name: "database", err: errors.New("down")})

	req := httptest.NewRequest("GET", "/health?ping=true", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// Ping never runs the checkers.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp["ping"])
}

func TestHealthAllCheckersHealthy(t *testing.T) {
	handler := newTestHealthHandler()
	handler.AddChecker(&stubChecker{name: "database"})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "userledger", resp.Service)
	assert.Equal(t, "healthy", resp.Checks["database"].Status)
}

func TestHealthFailingCheckerMarksUnhealthy(t *testing.T) {
	handler := newTestHealthHandler()
	handler.AddChecker(&stubChecker{name: "database", err: errors.New("connection refused")})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["database"].Error)
}
