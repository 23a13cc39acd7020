// Package risk evaluates proposed transactions against per-currency limits.
package risk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bankx/transactions/pkg/currency"
	"github.com/bankx/transactions/pkg/domain"
	"github.com/bankx/transactions/pkg/repository"
	"github.com/bankx/transactions/pkg/repository/riskrule"
)

// Evaluator checks a proposed amount against the configured limit for a
// currency. It is stateless beyond the rule lookup and has no side effects.
type Evaluator struct {
	rules  riskrule.Repository
	logger *slog.Logger
}

// New creates an Evaluator backed by the given rule repository.
func New(rules riskrule.Repository, logger *slog.Logger) *Evaluator {
	return &Evaluator{rules: rules, logger: logger}
}

// IsAllowed reports whether a transaction of the given type and amount is
// permitted for the currency.
//
// A currency with no configured rule is unrestricted. Rules cap single DEBIT
// amounts only; CREDIT is never rejected here. The asymmetry is deliberate:
// the limit models a per-transaction withdrawal ceiling.
func (e *Evaluator) IsAllowed(
	ctx context.Context,
	code currency.Code,
	txType domain.TxType,
	amount decimal.Decimal,
) (bool, error) {
	rule, err := e.rules.GetByCurrency(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: risk rule lookup: %v", domain.ErrStorageUnavailable, err)
	}
	if txType != domain.TxDebit {
		return true, nil
	}
	allowed := amount.LessThanOrEqual(rule.MaxDebitPerTx)
	if !allowed {
		e.logger.Info("risk limit exceeded",
			"currency", code,
			"amount", amount,
			"max_debit_per_tx", rule.MaxDebitPerTx,
		)
	}
	return allowed, nil
}
