package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer represents a peer-to-peer balance transfer between two users.
// No balance or ownership checks are performed on transfers; the ledger
// records what it is told.
type Transfer struct {
	ID         string          `json:"id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
}
