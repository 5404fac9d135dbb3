package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/store"
)

// ServiceError wraps an unexpected failure with the operation that hit it.
// Expected conditions are returned as domain sentinels instead, so callers
// match them with errors.Is.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_guess", "recompute_leaderboard")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// passthrough lists the conditions a caller is expected to handle.
var passthrough = []error{
	domain.ErrValidation,
	domain.ErrInvalidLength,
	domain.ErrInvalidWord,
	domain.ErrSessionClosed,
	domain.ErrConcurrentModification,
	domain.ErrPuzzleNotAvailable,
	domain.ErrSessionNotFound,
	domain.ErrSessionNotOwned,
	domain.ErrSessionNotFinished,
}

// NewServiceError wraps err for operation. Known sentinel errors are
// returned unchanged, and store conflicts become ErrConcurrentModification.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range passthrough {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	if errors.Is(err, store.ErrVersionConflict) || errors.Is(err, store.ErrRankedAttemptExists) {
		return fmt.Errorf("%w: %v", domain.ErrConcurrentModification, err)
	}
	if errors.Is(err, store.ErrAttemptNotFound) {
		return domain.ErrSessionNotFound
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
