package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
)

// PuzzleStore defines the interface for persisted daily puzzles.
// Puzzles are immutable once written and never deleted.
type PuzzleStore interface {
	// CreateIfAbsent saves puzzle unless a puzzle already exists for its date.
	// An existing puzzle is left untouched and no error is returned, so
	// concurrent first requests for a date converge on one record.
	CreateIfAbsent(ctx context.Context, puzzle *domain.Puzzle) error

	// GetByDate retrieves the puzzle for date.
	// Returns ErrPuzzleNotFound if none has been materialized.
	GetByDate(ctx context.Context, date domain.Date) (*domain.Puzzle, error)

	// GetByID retrieves a puzzle by its ID.
	// Returns ErrPuzzleNotFound if the puzzle does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Puzzle, error)
}
