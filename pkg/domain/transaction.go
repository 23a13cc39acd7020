// Package domain holds the core vocabulary of the transaction pipeline:
// transaction types and statuses, balance arithmetic, and the error taxonomy
// shared by the service and transport layers.
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TxType is the direction of a transaction: money out (DEBIT) or in (CREDIT).
type TxType string

const (
	// TxDebit removes funds from the account.
	TxDebit TxType = "DEBIT"
	// TxCredit adds funds to the account.
	TxCredit TxType = "CREDIT"
)

// Status is the terminal status of a persisted transaction. Rejected requests
// are never persisted, so OK is the only status the pipeline produces.
type Status string

// StatusOK marks a committed transaction.
const StatusOK Status = "OK"

// ParseTxType normalizes a raw transaction type to uppercase and validates it.
// Unknown types are reported as ErrInvalidRequest.
func ParseTxType(raw string) (TxType, error) {
	switch t := TxType(strings.ToUpper(raw)); t {
	case TxDebit, TxCredit:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", ErrInvalidRequest, raw)
	}
}

// Apply returns the balance that results from applying the transaction
// direction to balance.
func (t TxType) Apply(balance, amount decimal.Decimal) decimal.Decimal {
	if t == TxDebit {
		return balance.Sub(amount)
	}
	return balance.Add(amount)
}
