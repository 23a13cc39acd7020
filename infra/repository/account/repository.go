// Package account implements the account store on gorm.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bankx/transactions/infra/repository/model"
	"github.com/bankx/transactions/pkg/currency"
	"github.com/bankx/transactions/pkg/dto"
	"github.com/bankx/transactions/pkg/repository"
	repo "github.com/bankx/transactions/pkg/repository/account"
)

type accountRepository struct {
	db *gorm.DB
}

// New creates an account repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &accountRepository{db: db}
}

// Create implements account.Repository. The currency code is validated here
// because provisioning happens outside the pipeline and a malformed code
// would otherwise poison every later risk lookup.
func (r *accountRepository) Create(ctx context.Context, create dto.AccountCreate) error {
	if !currency.IsValidFormat(create.Currency) {
		return fmt.Errorf("invalid currency code %q", create.Currency)
	}
	acct := model.Account{
		ID:         create.ID,
		Number:     create.Number,
		HolderName: create.HolderName,
		Currency:   create.Currency,
		Balance:    create.Balance,
	}
	return r.db.WithContext(ctx).Create(&acct).Error
}

// GetByNumber implements account.Repository.
func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*dto.AccountRead, error) {
	var acct model.Account
	err := r.db.WithContext(ctx).First(&acct, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapModelToDTO(&acct), nil
}

// CommitBalance implements account.Repository. The expected balance is part
// of the UPDATE predicate, so the write succeeds only if no other writer got
// in between; zero affected rows means the balance moved.
func (r *accountRepository) CommitBalance(
	ctx context.Context,
	id uuid.UUID,
	expected, next decimal.Decimal,
) error {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND balance = ?", id, expected).
		Update("balance", next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrConflict
	}
	return nil
}

// DeleteAll implements account.Repository.
func (r *accountRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Account{}).Error
}

// mapModelToDTO maps a database record to a read-optimized DTO.
func mapModelToDTO(acct *model.Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:         acct.ID,
		Number:     acct.Number,
		HolderName: acct.HolderName,
		Currency:   acct.Currency,
		Balance:    acct.Balance,
		CreatedAt:  acct.CreatedAt,
		UpdatedAt:  acct.UpdatedAt,
	}
}
