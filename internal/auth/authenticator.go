package auth

import (
	"context"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/models"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
)

// UserFinder looks up a user by email for credential verification.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordAuthenticator verifies email/password pairs against stored bcrypt
// hashes and issues access tokens on success.
type PasswordAuthenticator struct {
	users  UserFinder
	tokens *TokenIssuer
	logger *logging.Logger
}

// NewPasswordAuthenticator creates a PasswordAuthenticator.
func NewPasswordAuthenticator(users UserFinder, tokens *TokenIssuer, logger *logging.Logger) *PasswordAuthenticator {
	return &PasswordAuthenticator{users: users, tokens: tokens, logger: logger}
}

// CheckCredentials implements Authenticator. An unknown email and a wrong
// password are indistinguishable to the caller; storage failures propagate
// as collaborator errors and must not look like bad credentials.
func (a *PasswordAuthenticator) CheckCredentials(ctx context.Context, email, password string) (*Session, error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsKind(err, pkgerrors.KindNotFound) {
			return nil, pkgerrors.NewInvalidCredentials("Wrong email or password")
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, pkgerrors.NewInvalidCredentials("Wrong email or password")
	}

	token, expiresAt, err := a.tokens.Issue(user.ID, user.Email)
	if err != nil {
		a.logger.Error("Failed to issue access token", logging.FieldError, err, "user_id", user.ID)
		return nil, pkgerrors.NewUnavailable(pkgerrors.ErrCodeAuthFailed, "Login is temporarily unavailable")
	}

	return &Session{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
