package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned by the compare-and-swap balance commit when
	// the stored balance no longer matches the expected balance.
	ErrConflict = errors.New("balance commit conflict")
)
