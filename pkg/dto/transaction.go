package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRead is a read-optimized DTO for transaction queries, API
// responses and the live stream.
type TransactionRead struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"accountId"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	Status    string          `json:"status"`
}

// TransactionCreate is the payload for appending a transaction to the log.
type TransactionCreate struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Type      string
	Amount    decimal.Decimal
	Timestamp time.Time
	Status    string
}
