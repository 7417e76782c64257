package service

import (
	"context"
	"time"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/models"
	pkgerrors "github.com/dfirmansy/userledger/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStore is the storage collaborator contract for transfer records.
type TransferStore interface {
	ListTransfers(ctx context.Context) ([]models.Transfer, error)
	GetTransfer(ctx context.Context, id string) (*models.Transfer, error)
	CreateTransfer(ctx context.Context, transfer *models.Transfer) error
	UpdateTransferAmount(ctx context.Context, id string, amount decimal.Decimal) error
	DeleteTransfer(ctx context.Context, id string) error
}

// TransferService records peer-to-peer balance transfers. It is a thin
// bookkeeping layer: balance and ownership are not checked.
type TransferService struct {
	store  TransferStore
	users  UserStore
	logger *logging.Logger
	now    func() time.Time
}

// NewTransferService creates a TransferService.
func NewTransferService(store TransferStore, users UserStore, logger *logging.Logger) *TransferService {
	return &TransferService{store: store, users: users, logger: logger, now: time.Now}
}

// ListTransfers returns all recorded transfers.
func (s *TransferService) ListTransfers(ctx context.Context) ([]models.Transfer, error) {
	return s.store.ListTransfers(ctx)
}

// GetTransfer returns one transfer by ID.
func (s *TransferService) GetTransfer(ctx context.Context, id string) (*models.Transfer, error) {
	return s.store.GetTransfer(ctx, id)
}

// CreateTransfer records a transfer between two users.
func (s *TransferService) CreateTransfer(ctx context.Context, fromUserID, toUserID string, amount decimal.Decimal) (*models.Transfer, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	// Both endpoints must exist; their balances are not inspected.
	if _, err := s.users.GetUser(ctx, fromUserID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetUser(ctx, toUserID); err != nil {
		return nil, err
	}

	transfer := &models.Transfer{
		ID:         uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Amount:     amount,
		Timestamp:  s.now().UTC(),
	}

	if err := s.store.CreateTransfer(ctx, transfer); err != nil {
		return nil, err
	}

	s.logger.Info("Transfer recorded",
		"transfer_id", transfer.ID,
		"from_user_id", fromUserID,
		"to_user_id", toUserID,
		"amount", amount.String(),
	)
	return transfer, nil
}

// UpdateTransfer changes the amount of an existing transfer.
func (s *TransferService) UpdateTransfer(ctx context.Context, id string, amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	if _, err := s.store.GetTransfer(ctx, id); err != nil {
		return err
	}

	return s.store.UpdateTransferAmount(ctx, id, amount)
}

// DeleteTransfer removes a transfer record.
func (s *TransferService) DeleteTransfer(ctx context.Context, id string) error {
	if _, err := s.store.GetTransfer(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteTransfer(ctx, id)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return pkgerrors.NewValidation(pkgerrors.ErrCodeValidationFailed, "Amount must be positive")
	}
	return nil
}
