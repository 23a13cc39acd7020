package dto

import "github.com/shopspring/decimal"

// RiskRuleRead is a read-optimized snapshot of a per-currency risk rule.
type RiskRuleRead struct {
	Currency      string          `json:"currency"`
	MaxDebitPerTx decimal.Decimal `json:"maxDebitPerTx"`
}

// RiskRuleCreate is the payload for configuring a risk rule.
type RiskRuleCreate struct {
	Currency      string
	MaxDebitPerTx decimal.Decimal
}
