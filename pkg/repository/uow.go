// Package repository defines the persistence contracts of the transaction
// pipeline: the account store, the transaction log, the risk rule lookup and
// the unit of work that binds them to one database transaction.
package repository

import (
	"context"

	"github.com/bankx/transactions/pkg/repository/account"
	"github.com/bankx/transactions/pkg/repository/riskrule"
	"github.com/bankx/transactions/pkg/repository/transaction"
)

// UnitOfWork provides transactional work and repository access bound to the
// same database session.
//
// Do runs the given function inside a transaction boundary; repositories
// obtained from the UnitOfWork passed to fn share that transaction, so the
// balance commit and the log append either both persist or neither does. If
// fn returns an error the transaction is rolled back.
//
// Repositories obtained outside Do operate on the base session and are
// suitable for read paths that need no transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (account.Repository, error)
	TransactionRepository() (transaction.Repository, error)
	RiskRuleRepository() (riskrule.Repository, error)
}
