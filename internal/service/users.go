// Package service implements the business operations of the userledger
// service on top of the storage collaborators.
package service

import (
	"context"

	"github.com/dfirmansy/userledger/internal/auth"
	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/models"
	"github.com/dfirmansy/userledger/internal/query"
	"github.com/dfirmansy/userledger/internal/types"
	"github.com/dfirmansy/userledger/internal/validation"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
)

// UserStore is the storage collaborator contract for user records.
// Implementations return KindNotFound errors for absent users and
// KindUnavailable for infrastructure failures.
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	UpdateUser(ctx context.Context, id, name, email string) error
	DeleteUser(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id, passwordHash string) error
}

// UserService provides user account operations.
type UserService struct {
	store      UserStore
	logger     *logging.Logger
	bcryptCost int
}

// NewUserService creates a UserService.
func NewUserService(store UserStore, logger *logging.Logger, bcryptCost int) *UserService {
	return &UserService{store: store, logger: logger, bcryptCost: bcryptCost}
}

// ListUsers fetches a point-in-time snapshot of all users and runs the
// filter/sort/paginate/project pipeline over it in memory.
func (s *UserService) ListUsers(ctx context.Context, params types.ListUsersParams) (*types.UserPage, error) {
	snapshot, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	page := query.BuildPage(snapshot, params)
	return &page, nil
}

// GetUser returns the projected public shape of one user.
func (s *UserService) GetUser(ctx context.Context, id string) (*types.PublicUser, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &types.PublicUser{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// CreateUser registers a new account. The password confirmation must match
// and the email must not already be registered.
func (s *UserService) CreateUser(ctx context.Context, name, email, password, passwordConfirm string) (*types.PublicUser, error) {
	if password != passwordConfirm {
		return nil, pkgerrors.NewValidation(pkgerrors.ErrCodePasswordMismatch, "Password confirmation mismatched")
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, err.Error())
	}

	if err := s.checkEmailAvailable(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", logging.FieldError, err)
		return nil, pkgerrors.NewUnavailable(pkgerrors.ErrCodeAuthFailed, "Failed to create user")
	}

	user, err := s.store.CreateUser(ctx, name, email, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID, "email", user.Email)
	return &types.PublicUser{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// UpdateUser changes a user's name and email.
func (s *UserService) UpdateUser(ctx context.Context, id, name, email string) error {
	if err := validation.ValidateName(name); err != nil {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, err.Error())
	}

	if _, err := s.store.GetUser(ctx, id); err != nil {
		return err
	}

	if err := s.checkEmailAvailable(ctx, email, id); err != nil {
		return err
	}

	return s.store.UpdateUser(ctx, id, name, email)
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.store.GetUser(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword, passwordConfirm string) error {
	if newPassword != passwordConfirm {
		return pkgerrors.NewValidation(pkgerrors.ErrCodePasswordMismatch, "Password confirmation mismatched")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, err.Error())
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(oldPassword, user.PasswordHash) {
		return pkgerrors.NewInvalidCredentials("Wrong password")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", logging.FieldError, err, "user_id", id)
		return pkgerrors.NewUnavailable(pkgerrors.ErrCodeAuthFailed, "Failed to change password")
	}

	return s.store.SetPassword(ctx, id, hash)
}

// checkEmailAvailable enforces email uniqueness. A user keeping their own
// email on update is not a conflict.
func (s *UserService) checkEmailAvailable(ctx context.Context, email, selfID string) error {
	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsKind(err, pkgerrors.KindNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return pkgerrors.NewDuplicate(pkgerrors.ErrCodeEmailAlreadyTaken, "Email is already registered")
}
