// Package repository implements the unit of work on gorm.
package repository

import (
	"context"

	"gorm.io/gorm"

	infraaccount "github.com/bankx/transactions/infra/repository/account"
	infrariskrule "github.com/bankx/transactions/infra/repository/riskrule"
	infratransaction "github.com/bankx/transactions/infra/repository/transaction"
	"github.com/bankx/transactions/pkg/repository"
	repoaccount "github.com/bankx/transactions/pkg/repository/account"
	reporiskrule "github.com/bankx/transactions/pkg/repository/riskrule"
	repotransaction "github.com/bankx/transactions/pkg/repository/transaction"
)

// UoW is a gorm-backed unit of work. Outside Do its repositories run on the
// base session; inside Do they share one database transaction, which is what
// makes the balance commit and the log append a single atomic unit.
type UoW struct {
	db *gorm.DB
}

// NewUoW creates a unit of work over the given database connection.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do implements repository.UnitOfWork. fn receives a UnitOfWork bound to the
// transaction; any error rolls the whole transaction back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: tx})
	})
}

// AccountRepository implements repository.UnitOfWork.
func (u *UoW) AccountRepository() (repoaccount.Repository, error) {
	return infraaccount.New(u.db), nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *UoW) TransactionRepository() (repotransaction.Repository, error) {
	return infratransaction.New(u.db), nil
}

// RiskRuleRepository implements repository.UnitOfWork.
func (u *UoW) RiskRuleRepository() (reporiskrule.Repository, error) {
	return infrariskrule.New(u.db), nil
}
