package fixtures

import (
	"context"

	"github.com/bankx/transactions/pkg/repository"
	repoaccount "github.com/bankx/transactions/pkg/repository/account"
	reporiskrule "github.com/bankx/transactions/pkg/repository/riskrule"
	repotransaction "github.com/bankx/transactions/pkg/repository/transaction"
)

// UnitOfWork binds the in-memory repositories into a repository.UnitOfWork.
// Do emulates transactional rollback by snapshotting account state before
// running fn and restoring it when fn fails, so atomicity tests behave like
// the SQL implementation.
type UnitOfWork struct {
	Accounts     *AccountRepo
	Transactions *TransactionRepo
	RiskRules    *RiskRuleRepo
}

// NewUnitOfWork creates a UnitOfWork over fresh in-memory repositories.
func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		Accounts:     NewAccountRepo(),
		Transactions: NewTransactionRepo(),
		RiskRules:    NewRiskRuleRepo(),
	}
}

// Do implements repository.UnitOfWork.
func (u *UnitOfWork) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	snap := u.Accounts.snapshot()
	if err := fn(u); err != nil {
		u.Accounts.restore(snap)
		return err
	}
	return nil
}

// AccountRepository implements repository.UnitOfWork.
func (u *UnitOfWork) AccountRepository() (repoaccount.Repository, error) {
	return u.Accounts, nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UnitOfWork) TransactionRepository() (repotransaction.Repository, error) {
	return u.Transactions, nil
}

// RiskRuleRepository implements repository.UnitOfWork.
func (u *UnitOfWork) RiskRuleRepository() (reporiskrule.Repository, error) {
	return u.RiskRules, nil
}
