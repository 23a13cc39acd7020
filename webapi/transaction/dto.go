package transaction

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the payload for POST /transactions.
type CreateTransactionRequest struct {
	AccountNumber string          `json:"accountNumber" validate:"required"`
	Type          string          `json:"type" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}
