package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/types"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
)

// UserService defines the user operations the handler depends on.
type UserService interface {
	ListUsers(ctx context.Context, params types.ListUsersParams) (*types.UserPage, error)
	GetUser(ctx context.Context, id string) (*types.PublicUser, error)
	CreateUser(ctx context.Context, name, email, password, passwordConfirm string) (*types.PublicUser, error)
	UpdateUser(ctx context.Context, id, name, email string) error
	DeleteUser(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, oldPassword, newPassword, passwordConfirm string) error
}

// UserHandler handles HTTP requests for user account operations.
type UserHandler struct {
	users  UserService
	logger *logging.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users UserService, logger *logging.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// UpdateUserRequest represents the request body for updating a user.
type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	Password        string `json:"password"`
	NewPassword     string `json:"new_password"`
	PasswordConfirm string `json:"password_confirm"`
}

// parseListParams parses the list query string. Page defaults to 1 and an
// absent or non-positive page size means no limit.
func parseListParams(r *http.Request) (types.ListUsersParams, error) {
	params := types.ListUsersParams{
		Page:   1,
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}

	if raw := r.URL.Query().Get("page_number"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return params, pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "page_number must be an integer")
		}
		params.Page = page
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return params, pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "page_size must be an integer")
		}
		params.PageSize = pageSize
	}

	return params, nil
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.logger.WithRequestID(extractRequestID(r))

	params, err := parseListParams(r)
	if err != nil {
		logger.Warn("Invalid list query parameters",
			"query", r.URL.RawQuery,
			"error", err.Error(),
		)
		writeError(w, logger, err)
		return
	}

	page, err := h.users.ListUsers(r.Context(), params)
	if err != nil {
		logger.Error("Failed to list users", logging.FieldError, err)
		writeError(w, logger, err)
		return
	}

	logger.Info("Users listed",
		"count", page.Count,
		"total_pages", page.TotalPages,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	writeJSON(w, logger, http.StatusOK, page)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))
	id := r.PathValue("id")

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		logger.Warn("Failed to get user", "user_id", id, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, user)
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	logger := h.logger.WithRequestID(extractRequestID(r))

	if err := validateContentType(r); err != nil {
		logger.Warn("Invalid Content-Type header", "content_type", r.Header.Get("Content-Type"))
		writeError(w, logger, err)
		return
	}

	var req CreateUserRequest
	if err := parseJSONBody(r, &req); err != nil {
		logger.Warn("Failed to parse request body", "error", err.Error())
		writeError(w, logger, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		logger.Warn("Failed to create user", "email", req.Email, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	logger.Info("User creation request completed",
		"user_id", user.ID,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	writeJSON(w, logger, http.StatusCreated, user)
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))
	id := r.PathValue("id")

	if err := validateContentType(r); err != nil {
		writeError(w, logger, err)
		return
	}

	var req UpdateUserRequest
	if err := parseJSONBody(r, &req); err != nil {
		logger.Warn("Failed to parse request body", "error", err.Error())
		writeError(w, logger, err)
		return
	}

	if err := h.users.UpdateUser(r.Context(), id, req.Name, req.Email); err != nil {
		logger.Warn("Failed to update user", "user_id", id, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	logger.Info("User updated", "user_id", id)
	writeJSON(w, logger, http.StatusOK, map[string]string{"id": id})
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))
	id := r.PathValue("id")

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		logger.Warn("Failed to delete user", "user_id", id, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	logger.Info("User deleted", "user_id", id)
	writeJSON(w, logger, http.StatusOK, map[string]string{"id": id})
}

// ChangePassword handles POST /users/{id}/change-password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))
	id := r.PathValue("id")

	if err := validateContentType(r); err != nil {
		writeError(w, logger, err)
		return
	}

	var req ChangePasswordRequest
	if err := parseJSONBody(r, &req); err != nil {
		logger.Warn("Failed to parse request body", "error", err.Error())
		writeError(w, logger, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), id, req.Password, req.NewPassword, req.PasswordConfirm); err != nil {
		logger.Warn("Failed to change password", "user_id", id, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	logger.Info("Password changed", "user_id", id)
	writeJSON(w, logger, http.StatusOK, map[string]string{"id": id})
}
