// Package common holds the domain error taxonomy shared by every layer.
// Errors wrap a small set of base kinds so that errors.Is can drive both the
// internal retry policy and the HTTP status mapping without leaking storage
// details past the repository boundary.
package common

import (
	"errors"
	"fmt"
)

// Base error kinds. Every error surfaced by the core wraps exactly one of
// these.
var (
	// ErrInvalidInput is returned for malformed or missing parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount is returned for non-positive amounts or amounts with
	// more decimal places than the currency's minor unit allows.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidOperation is returned for operations that are well-formed but
	// not allowed, such as self-transfers or disallowed state transitions.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnauthorized is returned when the caller does not own the resource.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a resource is absent or intentionally
	// hidden to avoid leaking its existence.
	ErrNotFound = errors.New("not found")

	// ErrAccountInactive is returned when an account is not in active status.
	ErrAccountInactive = errors.New("account is not active")

	// ErrInsufficientFunds is returned when a debit would push the balance
	// below the overdraft limit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCurrencyMismatch is returned when the currencies of the accounts
	// involved in an operation differ. There is no implicit conversion.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrConflict is returned when a concurrent update won the race. The
	// operation is safe to retry.
	ErrConflict = errors.New("conflict")

	// ErrStorageFailure is returned when the underlying store is unavailable.
	ErrStorageFailure = errors.New("storage failure")
)

// Specialized errors wrapping the base kinds.
var (
	// ErrAccountNotFound is returned when an account cannot be found, or when
	// it is not owned by the caller (ownership is deliberately not
	// distinguished from non-existence).
	ErrAccountNotFound = fmt.Errorf("account %w", ErrNotFound)

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrSelfTransfer is returned when a transfer names the same account on
	// both sides.
	ErrSelfTransfer = fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidOperation)

	// ErrTransactionFinalized is returned when a ledger entry that already
	// left pending status is mutated.
	ErrTransactionFinalized = fmt.Errorf("%w: transaction already finalized", ErrInvalidOperation)

	// ErrInvalidCurrencyCode is returned for malformed or unsupported
	// currency codes.
	ErrInvalidCurrencyCode = fmt.Errorf("%w: invalid currency code", ErrInvalidInput)
)

// Retryable reports whether the error represents a transient condition that
// a bounded internal retry may resolve.
func Retryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrStorageFailure)
}
