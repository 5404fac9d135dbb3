package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second ranked attempt for one puzzle).
	ErrDuplicate = errors.New("entity already exists")

	// ErrVersionConflict is returned when an optimistic update finds the stored
	// version no longer matches the version the caller loaded.
	ErrVersionConflict = errors.New("version conflict")

	// ErrAlreadyAggregated is returned when an attempt's stats marker is already set.
	ErrAlreadyAggregated = errors.New("attempt already aggregated")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a transaction fails to commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrInvalidPageWindow is returned when a page read gets a negative
	// offset or limit.
	ErrInvalidPageWindow = errors.New("invalid page window")

	// Entity-specific "not found" errors

	// ErrPuzzleNotFound indicates that no puzzle is stored for the requested key.
	ErrPuzzleNotFound = fmt.Errorf("%w: puzzle", ErrNotFound)

	// ErrAttemptNotFound indicates that the requested attempt does not exist.
	ErrAttemptNotFound = fmt.Errorf("%w: attempt", ErrNotFound)

	// ErrUserStatsNotFound indicates that the user has no stats yet.
	ErrUserStatsNotFound = fmt.Errorf("%w: user stats", ErrNotFound)

	// ErrLeaderboardEntryNotFound indicates that the user is absent from a snapshot.
	ErrLeaderboardEntryNotFound = fmt.Errorf("%w: leaderboard entry", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrRankedAttemptExists indicates that the user already has a ranked
	// attempt for the puzzle.
	ErrRankedAttemptExists = fmt.Errorf("%w: ranked attempt", ErrDuplicate)
)

// StoreError records which store operation failed. Unwrap exposes the
// underlying sentinel to errors.Is.
type StoreError struct {
	Entity    string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Entity, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err with the entity and operation that produced it.
// A nil err yields nil.
func NewStoreError(entity, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Entity: entity, Operation: operation, Err: err}
}
