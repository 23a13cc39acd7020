// Package model defines the database records behind the pipeline's stores.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents an account record in the database.
type Account struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	Number     string          `gorm:"uniqueIndex;not null;size:32"`
	HolderName string          `gorm:"not null;size:255"`
	Currency   string          `gorm:"type:varchar(3);not null"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction represents a persisted transaction. The Seq column is a
// monotonically increasing insertion counter used to break timestamp ties in
// the per-account listing.
type Transaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	Seq       int64           `gorm:"autoIncrement;uniqueIndex"`
	AccountID uuid.UUID       `gorm:"type:uuid;index:idx_transactions_account_ts,priority:1"`
	Type      string          `gorm:"type:varchar(6);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	Timestamp time.Time       `gorm:"index:idx_transactions_account_ts,priority:2,sort:desc"`
	Status    string          `gorm:"type:varchar(8);not null"`
	CreatedAt time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// RiskRule represents a per-currency debit limit record.
type RiskRule struct {
	Currency      string          `gorm:"type:varchar(3);primary_key"`
	MaxDebitPerTx decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for the RiskRule model.
func (RiskRule) TableName() string {
	return "risk_rules"
}
