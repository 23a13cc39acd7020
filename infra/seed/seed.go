// Package seed loads the development dataset: two PEN accounts and the
// per-currency debit limits. It runs at startup in development only.
package seed

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankx/transactions/pkg/dto"
	"github.com/bankx/transactions/pkg/repository"
)

// Run upserts the risk rules and reloads the demo accounts. Accounts are
// wiped first so repeated startups always begin from the same balances.
func Run(ctx context.Context, uow repository.UnitOfWork, logger *slog.Logger) error {
	rules, err := uow.RiskRuleRepository()
	if err != nil {
		return err
	}
	for _, rule := range []dto.RiskRuleCreate{
		{Currency: "PEN", MaxDebitPerTx: decimal.NewFromInt(1500)},
		{Currency: "USD", MaxDebitPerTx: decimal.NewFromInt(500)},
	} {
		if err := rules.Upsert(ctx, rule); err != nil {
			return err
		}
	}

	accounts, err := uow.AccountRepository()
	if err != nil {
		return err
	}
	if err := accounts.DeleteAll(ctx); err != nil {
		return err
	}
	for _, acct := range []dto.AccountCreate{
		{
			ID:         uuid.New(),
			Number:     "001-0001",
			HolderName: "Ana Peru",
			Currency:   "PEN",
			Balance:    decimal.NewFromInt(2000),
		},
		{
			ID:         uuid.New(),
			Number:     "001-0002",
			HolderName: "Luis Acuña",
			Currency:   "PEN",
			Balance:    decimal.NewFromInt(800),
		},
	} {
		if err := accounts.Create(ctx, acct); err != nil {
			return err
		}
	}
	logger.Info("development data seeded", "accounts", 2, "risk_rules", 2)
	return nil
}
