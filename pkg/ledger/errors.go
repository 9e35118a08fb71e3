package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an account or customer lookup misses.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidOperation is returned for an unknown operation kind.
	ErrInvalidOperation = errors.New("invalid transaction type")

	// ErrInvalidAmount is returned for a zero or negative amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrPersistence wraps any failure of the underlying store.
	ErrPersistence = errors.New("persistence failure")
)

// Error codes shared by the HTTP API and client.
const (
	CodeNotFound           = "not_found"
	CodeInsufficientFunds  = "insufficient_funds"
	CodeInvalidOperation   = "invalid_operation"
	CodeInvalidAmount      = "invalid_amount"
	CodePersistenceFailure = "persistence_failure"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrNotFound, CodeNotFound},
	{ErrInsufficientFunds, CodeInsufficientFunds},
	{ErrInvalidOperation, CodeInvalidOperation},
	{ErrInvalidAmount, CodeInvalidAmount},
	{ErrPersistence, CodePersistenceFailure},
}

// ErrorCode returns the stable code for err, or "" if err is not a ledger error.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// ErrorForCode is the inverse of ErrorCode. It returns nil for unknown codes.
func ErrorForCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}

// isDomainError reports whether err already carries a ledger error kind.
func isDomainError(err error) bool {
	return ErrorCode(err) != ""
}

// persistence wraps a store error as ErrPersistence, keeping the cause matchable.
// Errors that already carry a ledger kind pass through unchanged.
func persistence(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
