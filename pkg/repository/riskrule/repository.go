// Package riskrule defines the risk rule lookup contract.
package riskrule

import (
	"context"

	"github.com/bankx/transactions/pkg/currency"
	"github.com/bankx/transactions/pkg/dto"
)

// Repository stores per-currency debit limits. The pipeline only reads
// rules; Upsert exists for external configuration and seeding.
type Repository interface {
	// GetByCurrency returns the rule for the given currency, or
	// repository.ErrNotFound when the currency has no configured limit.
	GetByCurrency(ctx context.Context, code currency.Code) (*dto.RiskRuleRead, error)

	// Upsert creates or replaces the rule for a currency.
	Upsert(ctx context.Context, create dto.RiskRuleCreate) error
}
