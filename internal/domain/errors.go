// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidDate is returned when a calendar date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Game errors. Each kind maps to exactly one caller-visible condition.
var (
	// ErrInvalidLength is returned when a guess length differs from the solution length.
	ErrInvalidLength = errors.New("guess length does not match solution length")

	// ErrInvalidWord is returned when a guess is not an accepted word.
	ErrInvalidWord = errors.New("guess is not in the word list")

	// ErrSessionClosed is returned when a guess is submitted to a won or lost session.
	ErrSessionClosed = errors.New("attempt session is closed")

	// ErrConcurrentModification is returned when another submission changed the
	// session first. The caller may reload and retry.
	ErrConcurrentModification = errors.New("attempt session was modified concurrently")

	// ErrCorpusExhausted is returned when the corpus cannot cover the configured
	// no-repeat lookback window. It is a configuration error.
	ErrCorpusExhausted = errors.New("word corpus is smaller than the lookback window")

	// ErrPuzzleNotAvailable is returned for dates outside the playable range.
	ErrPuzzleNotAvailable = errors.New("puzzle not available for date")

	// ErrSessionNotFound is returned when an attempt session does not exist.
	ErrSessionNotFound = errors.New("attempt session not found")

	// ErrSessionNotOwned is returned when a user accesses another user's session.
	ErrSessionNotOwned = errors.New("attempt session not owned by user")

	// ErrSessionNotFinished is returned when an operation needs a terminal session.
	ErrSessionNotFinished = errors.New("attempt session is not finished")
)

// IsRetryable reports whether err is a transient condition the client can retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// ValidationError carries the offending field together with the kind of
// failure so handlers can produce a precise message without string matching.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}
