// Package transaction defines the transaction log contract.
package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/bankx/transactions/pkg/dto"
)

// Repository is the append-only transaction log. No update or delete
// operation exists.
type Repository interface {
	// Create appends a committed transaction to the log.
	Create(ctx context.Context, create dto.TransactionCreate) error

	// ListByAccount returns the account's transactions in strict
	// reverse-chronological order; equal timestamps are broken by
	// insertion order, most recent first.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*dto.TransactionRead, error)
}
