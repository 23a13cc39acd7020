// Package dto defines the data transfer objects passed between the
// repositories and the service layer.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRead is a read-optimized snapshot of an account record.
type AccountRead struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	HolderName string          `json:"holderName"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// AccountCreate is the payload for provisioning a new account.
type AccountCreate struct {
	ID         uuid.UUID
	Number     string
	HolderName string
	Currency   string
	Balance    decimal.Decimal
}
