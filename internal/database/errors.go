package database

import (
	"context"
	"errors"

	"github.com/dfirmansy/userledger/internal/logging"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapStorageError translates low-level Postgres errors into the service
// error vocabulary without leaking internal details. A unique violation on
// users.email becomes a DUPLICATE; everything else that is not a business
// outcome becomes COLLABORATOR_UNAVAILABLE.
func mapStorageError(logger *logging.Logger, op string, err error) error {
	if err == nil {
		return nil
	}

	// Already classified by a caller.
	if _, ok := pkgerrors.Get(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		logger.DatabaseError(op, err)

		switch pgErr.Code {
		case "23505": // unique_violation
			return pkgerrors.NewDuplicate(pkgerrors.ErrCodeEmailAlreadyTaken, "Email is already registered")
		case "23503", "23502", "23514": // foreign key, not null, check constraints
			return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Request failed validation")
		}
		return pkgerrors.NewUnavailable(pkgerrors.ErrCodeStorageFailed, "Service temporarily unavailable")
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.DatabaseError(op+" cancelled", err)
		return pkgerrors.NewUnavailable(pkgerrors.ErrCodeStorageFailed, "Service temporarily unavailable")
	}

	logger.DatabaseError(op, err)
	return pkgerrors.NewUnavailable(pkgerrors.ErrCodeStorageFailed, "Service temporarily unavailable")
}
