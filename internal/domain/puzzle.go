package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Puzzle-specific validation errors
var (
	// ErrPuzzleIDEmpty is returned when a puzzle ID is empty or nil.
	ErrPuzzleIDEmpty = errors.New("puzzle ID cannot be empty")

	// ErrPuzzleDateEmpty is returned when a puzzle has no date.
	ErrPuzzleDateEmpty = errors.New("puzzle date cannot be empty")

	// ErrPuzzleSolutionEmpty is returned when a puzzle has no solution.
	ErrPuzzleSolutionEmpty = errors.New("puzzle solution cannot be empty")

	// ErrPuzzleNumberInvalid is returned when a puzzle number is not positive.
	ErrPuzzleNumberInvalid = errors.New("puzzle number must be positive")
)

// PuzzleNamespace is the UUID namespace puzzle IDs are derived in.
var PuzzleNamespace = uuid.MustParse("6f0d2c3a-8b1e-5d4f-9a77-3c2e1b0d9f10")

// PuzzleIDForDate returns the stable ID of the puzzle for date.
// The same date always yields the same ID regardless of store or process.
func PuzzleIDForDate(date Date) uuid.UUID {
	return uuid.NewSHA1(PuzzleNamespace, []byte(date.String()))
}

// Puzzle is one day's challenge.
// Solution must never be sent to a client before the client's session is terminal.
type Puzzle struct {
	ID        uuid.UUID `json:"id"`
	Date      Date      `json:"date"`
	Number    int       `json:"number"`
	Solution  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPuzzle creates a validated Puzzle for date.
func NewPuzzle(date Date, number int, solution string, now time.Time) (*Puzzle, error) {
	p := &Puzzle{
		ID:        PuzzleIDForDate(date),
		Date:      date,
		Number:    number,
		Solution:  solution,
		CreatedAt: now.UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks if the Puzzle has valid data.
func (p *Puzzle) Validate() error {
	if p.ID == uuid.Nil {
		return ErrPuzzleIDEmpty
	}
	if p.Date.IsZero() {
		return ErrPuzzleDateEmpty
	}
	if p.Solution == "" {
		return ErrPuzzleSolutionEmpty
	}
	if p.Number < 1 {
		return ErrPuzzleNumberInvalid
	}
	return nil
}
