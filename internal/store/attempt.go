package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
)

// AttemptStore defines the interface for attempt session persistence.
type AttemptStore interface {
	// Create saves a new attempt.
	// Returns ErrRankedAttemptExists if the user already holds a ranked
	// attempt for the puzzle. Practice attempts are never duplicates.
	Create(ctx context.Context, attempt *domain.Attempt) error

	// GetByID retrieves an attempt by its ID.
	// Returns ErrAttemptNotFound if the attempt does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error)

	// GetRanked retrieves the user's ranked attempt for puzzleID.
	// Returns ErrAttemptNotFound if the user has not played it.
	GetRanked(ctx context.Context, userID, puzzleID uuid.UUID) (*domain.Attempt, error)

	// Update persists the attempt's guesses, status and timestamps if the stored
	// version still equals attempt.Version. On success the stored version and
	// attempt.Version are both incremented.
	// Returns ErrVersionConflict if the stored version moved on,
	// ErrAttemptNotFound if the attempt does not exist.
	Update(ctx context.Context, attempt *domain.Attempt) error

	// MarkAggregated sets the attempt's aggregated marker to at.
	// Returns ErrAlreadyAggregated if the marker is already set, which is the
	// guard that makes stats aggregation apply at most once per attempt.
	MarkAggregated(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListByUser returns the user's attempts (ranked and practice) whose puzzle
	// date falls in [from, to], ordered by puzzle date then creation time.
	ListByUser(ctx context.Context, userID uuid.UUID, from, to domain.Date) ([]*domain.Attempt, error)

	// ListPendingAggregation returns up to limit terminal ranked attempts
	// whose aggregated marker is unset, oldest completion first.
	ListPendingAggregation(ctx context.Context, limit int) ([]*domain.Attempt, error)

	// SummarizeRanked aggregates terminal ranked attempts with puzzle dates in
	// [from, to] into one snapshot per user. CurrentStreak is taken from the
	// user's stats. Users with no such attempts are omitted.
	SummarizeRanked(ctx context.Context, from, to domain.Date) ([]domain.PlayerSnapshot, error)
}
