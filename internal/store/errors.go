package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	// Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a
	// uniqueness constraint, such as the (user, word) key on card
	// states.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation
	// before being stored. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a transaction fails to
	// commit or an operation inside it fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrCardStateNotFound indicates that no card state exists for the
	// requested (user, word) pair.
	ErrCardStateNotFound = fmt.Errorf("%w: card state", ErrNotFound)

	// ErrWordNotFound indicates that the requested word does not exist.
	ErrWordNotFound = fmt.Errorf("%w: word", ErrNotFound)

	// ErrCardStateExists indicates that a card state already exists for
	// the (user, word) pair. Callers materializing new cards treat this
	// as "someone else got there first" and re-read.
	ErrCardStateExists = fmt.Errorf("%w: card state", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of uniqueness
// violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
