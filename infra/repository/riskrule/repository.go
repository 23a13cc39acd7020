// Package riskrule implements the risk rule store on gorm.
package riskrule

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bankx/transactions/infra/repository/model"
	"github.com/bankx/transactions/pkg/currency"
	"github.com/bankx/transactions/pkg/dto"
	"github.com/bankx/transactions/pkg/repository"
	repo "github.com/bankx/transactions/pkg/repository/riskrule"
)

type riskRuleRepository struct {
	db *gorm.DB
}

// New creates a risk rule repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &riskRuleRepository{db: db}
}

// GetByCurrency implements riskrule.Repository.
func (r *riskRuleRepository) GetByCurrency(
	ctx context.Context,
	code currency.Code,
) (*dto.RiskRuleRead, error) {
	var rule model.RiskRule
	err := r.db.WithContext(ctx).First(&rule, "currency = ?", code.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dto.RiskRuleRead{
		Currency:      rule.Currency,
		MaxDebitPerTx: rule.MaxDebitPerTx,
	}, nil
}

// Upsert implements riskrule.Repository.
func (r *riskRuleRepository) Upsert(ctx context.Context, create dto.RiskRuleCreate) error {
	rule := model.RiskRule{
		Currency:      create.Currency,
		MaxDebitPerTx: create.MaxDebitPerTx,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_debit_per_tx", "updated_at"}),
	}).Create(&rule).Error
}
