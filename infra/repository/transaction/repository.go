// Package transaction implements the transaction log on gorm.
package transaction

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bankx/transactions/infra/repository/model"
	"github.com/bankx/transactions/pkg/dto"
	repo "github.com/bankx/transactions/pkg/repository/transaction"
)

type transactionRepository struct {
	db *gorm.DB
}

// New creates a transaction repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &transactionRepository{db: db}
}

// Create implements transaction.Repository. The log is append-only; this is
// the only write the repository exposes.
func (r *transactionRepository) Create(ctx context.Context, create dto.TransactionCreate) error {
	tx := model.Transaction{
		ID:        create.ID,
		AccountID: create.AccountID,
		Type:      create.Type,
		Amount:    create.Amount,
		Timestamp: create.Timestamp,
		Status:    create.Status,
	}
	return r.db.WithContext(ctx).Create(&tx).Error
}

// ListByAccount implements transaction.Repository. Ordering is timestamp
// descending with the insertion counter as tie-breaker, so equal timestamps
// come back most recent insert first.
func (r *transactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]*dto.TransactionRead, error) {
	var records []model.Transaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("timestamp DESC, seq DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TransactionRead, 0, len(records))
	for i := range records {
		out = append(out, mapModelToDTO(&records[i]))
	}
	return out, nil
}

func mapModelToDTO(tx *model.Transaction) *dto.TransactionRead {
	return &dto.TransactionRead{
		ID:        tx.ID,
		AccountID: tx.AccountID,
		Type:      tx.Type,
		Amount:    tx.Amount,
		Timestamp: tx.Timestamp,
		Status:    tx.Status,
	}
}
