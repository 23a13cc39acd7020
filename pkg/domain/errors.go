package domain

import "errors"

var (
	// ErrInvalidRequest is returned when a transaction request is malformed:
	// unknown transaction type or a non-positive amount. Requests rejected
	// with this error never touch storage.
	ErrInvalidRequest = errors.New("invalid transaction request")

	// ErrAccountNotFound is returned when no account exists for the
	// requested account number.
	ErrAccountNotFound = errors.New("account not found")

	// ErrRiskRejected is returned when a debit amount exceeds the configured
	// per-currency limit for the account's currency.
	ErrRiskRejected = errors.New("risk rejected")

	// ErrInsufficientFunds is returned when a debit would drive the account
	// balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConcurrentUpdateConflict is returned when the balance commit kept
	// conflicting with concurrent updates and the retry budget ran out.
	ErrConcurrentUpdateConflict = errors.New("concurrent update conflict")

	// ErrStorageUnavailable wraps storage collaborator failures that are not
	// business rejections.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
