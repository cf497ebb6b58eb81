// Package ledger defines the debt ledger's error taxonomy and the pure
// authorization rules shared by every component that mutates it.
package ledger

import "errors"

var (
	// ErrNotFound is returned when a transaction or bill does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned when the caller does not hold the role
	// (debtor or creditor) required by the operation. No mutation occurs.
	ErrUnauthorized = errors.New("caller lacks the required role")

	// ErrAlreadyPaid is returned when mutating a settled record.
	ErrAlreadyPaid = errors.New("transaction already paid")

	// ErrInvalidAmount is returned for a non-positive amount or one that
	// exceeds the outstanding balance.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInconsistentSplit is returned by the bill splitter when the item
	// sum deviates from the stated total beyond tolerance, before any
	// write happens.
	ErrInconsistentSplit = errors.New("bill items inconsistent with total")

	// ErrConflict is returned when a concurrent settlement consumed a
	// record first; the whole operation rolls back with zero effect.
	ErrConflict = errors.New("transaction modified concurrently")
)
