package database

import (
	"context"
	"errors"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/models"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransferRepository implements service.TransferStore against Postgres.
type TransferRepository struct {
	pool   *pgxpool.Pool
	logger *logging.Logger
}

// NewTransferRepository creates a TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool, logger *logging.Logger) *TransferRepository {
	return &TransferRepository{pool: pool, logger: logger}
}

// ListTransfers returns all transfers, newest first.
func (r *TransferRepository) ListTransfers(ctx context.Context) ([]models.Transfer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	query := `SELECT id, from_user_id, to_user_id, amount, created_at FROM transfers ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapStorageError(r.logger, "ListTransfers", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(&t.ID, &t.FromUserID, &t.ToUserID, &t.Amount, &t.Timestamp); err != nil {
			return nil, mapStorageError(r.logger, "ListTransfers scan", err)
		}
		transfers = append(transfers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, mapStorageError(r.logger, "ListTransfers rows", err)
	}

	return transfers, nil
}

// GetTransfer retrieves a transfer by ID.
func (r *TransferRepository) GetTransfer(ctx context.Context, id string) (*models.Transfer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	query := `SELECT id, from_user_id, to_user_id, amount, created_at FROM transfers WHERE id = $1`

	var t models.Transfer
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.FromUserID, &t.ToUserID, &t.Amount, &t.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pkgerrors.NewNotFound(pkgerrors.ErrCodeTransferNotFound, "Unknown transfer")
		}
		return nil, mapStorageError(r.logger, "GetTransfer", err)
	}

	return &t, nil
}

// CreateTransfer inserts a new transfer record.
func (r *TransferRepository) CreateTransfer(ctx context.Context, transfer *models.Transfer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	query := `INSERT INTO transfers (id, from_user_id, to_user_id, amount, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		transfer.ID, transfer.FromUserID, transfer.ToUserID, transfer.Amount, transfer.Timestamp)
	if err != nil {
		return mapStorageError(r.logger, "CreateTransfer", err)
	}

	return nil
}

// UpdateTransferAmount changes the amount of an existing transfer.
func (r *TransferRepository) UpdateTransferAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	cmdTag, err := r.pool.Exec(ctx, `UPDATE transfers SET amount = $1 WHERE id = $2`, amount, id)
	if err != nil {
		return mapStorageError(r.logger, "UpdateTransferAmount", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pkgerrors.NewNotFound(pkgerrors.ErrCodeTransferNotFound, "Unknown transfer")
	}

	return nil
}

// DeleteTransfer removes a transfer by ID.
func (r *TransferRepository) DeleteTransfer(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOperationTimeout)
	defer cancel()

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM transfers WHERE id = $1`, id)
	if err != nil {
		return mapStorageError(r.logger, "DeleteTransfer", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pkgerrors.NewNotFound(pkgerrors.ErrCodeTransferNotFound, "Unknown transfer")
	}

	return nil
}
