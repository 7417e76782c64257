package handlers

import (
	"context"
	"net/http"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/dfirmansy/userledger/internal/models"
	"github.com/shopspring/decimal"
)

// TransferService defines the transfer operations the handler depends on.
type TransferService interface {
	ListTransfers(ctx context.Context) ([]models.Transfer, error)
	GetTransfer(ctx context.Context, id string) (*models.Transfer, error)
	CreateTransfer(ctx context.Context, fromUserID, toUserID string, amount decimal.Decimal) (*models.Transfer, error)
	UpdateTransfer(ctx context.Context, id string, amount decimal.Decimal) error
	DeleteTransfer(ctx context.Context, id string) error
}

// TransferHandler handles HTTP requests for transfer bookkeeping.
type TransferHandler struct {
	transfers TransferService
	logger    *logging.Logger
}

// NewTransferHandler creates a new TransferHandler instance.
func NewTransferHandler(transfers TransferService, logger *logging.Logger) *TransferHandler {
	return &TransferHandler{transfers: transfers, logger: logger}
}

// CreateTransferRequest represents the request body for recording a transfer.
type CreateTransferRequest struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// UpdateTransferRequest represents the request body for amending a transfer.
type UpdateTransferRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// List handles GET /transfers.
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))

	transfers, err := h.transfers.ListTransfers(r.Context())
	if err != nil {
		logger.Error("Failed to list transfers", logging.FieldError, err)
		writeError(w, logger, err)
		return
	}

	// Empty list, not null, when nothing is recorded.
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	writeJSON(w, logger, http.StatusOK, transfers)
}

// Get handles GET /transfers/{id}.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))
	id := r.PathValue("id")

	transfer, err := h.transfers.GetTransfer(r.Context(), id)
	if err != nil {
		logger.Warn("Failed to get transfer", "transfer_id", id, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, transfer)
}

// Create handles POST /transfers.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))

	if err := validateContentType(r); err != nil {
		writeError(w, logger, err)
		return
	}

	var req CreateTransferRequest
	if err := parseJSONBody(r, &req); err != nil {
		logger.Warn("Failed to parse request body", "error", err.Error())
		writeError(w, logger, err)
		return
	}

	transfer, err := h.transfers.CreateTransfer(r.Context(), req.FromUserID, req.ToUserID, req.Amount)
	if err != nil {
		logger.Warn("Failed to create transfer",
			"from_user_id", req.FromUserID,
			"to_user_id", req.ToUserID,
			"error", err.Error(),
		)
		writeError(w, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusCreated, transfer)
}

// Update handles PUT /transfers/{id}.
func (h *TransferHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))
	id := r.PathValue("id")

	if err := validateContentType(r); err != nil {
		writeError(w, logger, err)
		return
	}

	var req UpdateTransferRequest
	if err := parseJSONBody(r, &req); err != nil {
		logger.Warn("Failed to parse request body", "error", err.Error())
		writeError(w, logger, err)
		return
	}

	if err := h.transfers.UpdateTransfer(r.Context(), id, req.Amount); err != nil {
		logger.Warn("Failed to update transfer", "transfer_id", id, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	logger.Info("Transfer updated", "transfer_id", id)
	writeJSON(w, logger, http.StatusOK, map[string]string{"id": id})
}

// Delete handles DELETE /transfers/{id}.
func (h *TransferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithRequestID(extractRequestID(r))
	id := r.PathValue("id")

	if err := h.transfers.DeleteTransfer(r.Context(), id); err != nil {
		logger.Warn("Failed to delete transfer", "transfer_id", id, "error", err.Error())
		writeError(w, logger, err)
		return
	}

	logger.Info("Transfer deleted", "transfer_id", id)
	writeJSON(w, logger, http.StatusOK, map[string]string{"id": id})
}
