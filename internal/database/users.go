package database

import (
	"context"
	"errors"
	"time"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/models"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Default timeout for database operations
const defaultOperationTimeout = 5 * time.Second

// UserRepository implements service.UserStore against Postgres.
// All queries are parameterized.
type UserRepository struct {
	pool   *pgxpool.Pool
	logger *logging.Logger
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(pool *pgxpool.Pool, logger *logging.Logger) *UserRepository {
	return &UserRepository{pool: pool, logger: logger}
}

// ListUsers returns a point-in-time snapshot of every user. Filtering,
// sorting, and pagination happen in memory downstream, so no ORDER BY or
// LIMIT is pushed into the query.
func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	query := `SELECT id, name, email, password_hash FROM users`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapStorageError(r.logger, "ListUsers", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash); err != nil {
			return nil, mapStorageError(r.logger, "ListUsers scan", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, mapStorageError(r.logger, "ListUsers rows", err)
	}

	return users, nil
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	query := `SELECT id, name, email, password_hash FROM users WHERE id = $1`

	var user models.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
		}
		return nil, mapStorageError(r.logger, "GetUser", err)
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email, compared case-insensitively.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	query := `SELECT id, name, email, password_hash FROM users WHERE lower(email) = lower($1)`

	var user models.User
	err := r.pool.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
		}
		return nil, mapStorageError(r.logger, "GetUserByEmail", err)
	}

	return &user, nil
}

// CreateUser inserts a new user and returns it with the generated ID.
func (r *UserRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	query := `INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3) RETURNING id`

	var id string
	if err := r.pool.QueryRow(ctx, query, name, email, passwordHash).Scan(&id); err != nil {
		return nil, mapStorageError(r.logger, "CreateUser", err)
	}

	return &models.User{ID: id, Name: name, Email: email, PasswordHash: passwordHash}, nil
}

// UpdateUser changes a user's name and email.
func (r *UserRepository) UpdateUser(ctx context.Context, id, name, email string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	query := `UPDATE users SET name = $1, email = $2 WHERE id = $3`

	cmdTag, err := r.pool.Exec(ctx, query, name, email, id)
	if err != nil {
		return mapStorageError(r.logger, "UpdateUser", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
	}

	return nil
}

// DeleteUser removes a user by ID.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapStorageError(r.logger, "DeleteUser", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
	}

	return nil
}

// SetPassword replaces a user's password hash.
func (r *UserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	cmdTag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return mapStorageError(r.logger, "SetPassword", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pkgerrors.NewNotFound(pkgerrors.ErrCodeUserNotFound, "Unknown user")
	}

	return nil
}
