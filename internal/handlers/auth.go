package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dfirmansy/userledger/internal/auth"
	"github.com/dfirmansy/userledger/internal/logging"
)

// LoginGuard wraps credential checking with the failed-attempt lockout.
type LoginGuard interface {
	AttemptLogin(ctx context.Context, email, password string) (*auth.Session, error)
}

// AuthHandler handles login requests.
type AuthHandler struct {
	guard  LoginGuard
	logger *logging.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(guard LoginGuard, logger *logging.Logger) *AuthHandler {
	return &AuthHandler{guard: guard, logger: logger}
}

// LoginRequest represents the request body for a login attempt.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.logger.WithRequestID(extractRequestID(r))

	if err := validateContentType(r); err != nil {
		logger.Warn("Invalid Content-Type header", "content_type", r.Header.Get("Content-Type"))
		writeError(w, logger, err)
		return
	}

	var req LoginRequest
	if err := parseJSONBody(r, &req); err != nil {
		logger.Warn("Failed to parse login request body", "error", err.Error())
		writeError(w, logger, err)
		return
	}

	session, err := h.guard.AttemptLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		// The email is logged, the password never is.
		logger.Warn("Login attempt rejected", "email", req.Email, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	logger.Info("Login succeeded",
		"user_id", session.UserID,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	writeJSON(w, logger, http.StatusOK, session)
}
