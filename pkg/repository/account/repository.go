// Package account defines the account store contract.
package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankx/transactions/pkg/dto"
)

// Repository is the account store. Balance mutation goes exclusively through
// CommitBalance so that two concurrent writers can never both apply against
// the same pre-update balance.
type Repository interface {
	// Create provisions a new account record.
	Create(ctx context.Context, create dto.AccountCreate) error

	// GetByNumber resolves an account by its caller-facing number.
	// Returns repository.ErrNotFound when absent.
	GetByNumber(ctx context.Context, number string) (*dto.AccountRead, error)

	// CommitBalance atomically replaces the stored balance with next, but
	// only if the stored balance still equals expected at the moment of
	// write. Returns repository.ErrConflict otherwise, so the caller can
	// re-read and retry.
	CommitBalance(ctx context.Context, id uuid.UUID, expected, next decimal.Decimal) error

	// DeleteAll removes every account record. Used by the development
	// seeder only.
	DeleteAll(ctx context.Context) error
}
