package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AttemptStatus is the lifecycle state of an attempt session.
type AttemptStatus string

const (
	// AttemptNotStarted is a session with no guesses yet.
	AttemptNotStarted AttemptStatus = "not_started"
	// AttemptPlaying is a session accepting guesses.
	AttemptPlaying AttemptStatus = "playing"
	// AttemptWon is a terminal session whose last guess matched the solution.
	AttemptWon AttemptStatus = "won"
	// AttemptLost is a terminal session that used every attempt without a match.
	AttemptLost AttemptStatus = "lost"
)

// IsValid checks if the status is one of the defined states.
func (s AttemptStatus) IsValid() bool {
	switch s {
	case AttemptNotStarted, AttemptPlaying, AttemptWon, AttemptLost:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is Won or Lost.
func (s AttemptStatus) IsTerminal() bool {
	return s == AttemptWon || s == AttemptLost
}

// Attempt-specific validation errors
var (
	ErrAttemptIDEmpty       = errors.New("attempt ID cannot be empty")
	ErrAttemptUserIDEmpty   = errors.New("attempt user ID cannot be empty")
	ErrAttemptPuzzleIDEmpty = errors.New("attempt puzzle ID cannot be empty")
	ErrAttemptStatusInvalid = errors.New("invalid attempt status")
	ErrAttemptInconsistent  = errors.New("attempt guesses do not match its status")
)

// Attempt is one user's play of one puzzle, ranked or practice.
type Attempt struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	PuzzleID     uuid.UUID     `json:"puzzle_id"`
	PuzzleDate   Date          `json:"puzzle_date"`
	Guesses      []Guess       `json:"guesses"`
	Status       AttemptStatus `json:"status"`
	IsPractice   bool          `json:"is_practice"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	AggregatedAt *time.Time    `json:"-"`
	Version      int           `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewAttempt creates a NotStarted session for userID on puzzle.
func NewAttempt(userID uuid.UUID, puzzle *Puzzle, practice bool, now time.Time) (*Attempt, error) {
	if puzzle == nil {
		return nil, ErrAttemptPuzzleIDEmpty
	}
	now = now.UTC()
	a := &Attempt{
		ID:         uuid.New(),
		UserID:     userID,
		PuzzleID:   puzzle.ID,
		PuzzleDate: puzzle.Date,
		Guesses:    []Guess{},
		Status:     AttemptNotStarted,
		IsPractice: practice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks if the Attempt has valid data.
func (a *Attempt) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAttemptIDEmpty
	}
	if a.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}
	if a.PuzzleID == uuid.Nil {
		return ErrAttemptPuzzleIDEmpty
	}
	if !a.Status.IsValid() {
		return ErrAttemptStatusInvalid
	}
	if (a.Status == AttemptNotStarted) != (len(a.Guesses) == 0) {
		return ErrAttemptInconsistent
	}
	if a.Status.IsTerminal() && a.CompletedAt == nil {
		return ErrAttemptInconsistent
	}
	return nil
}

// AppendGuess applies one evaluated guess to the session.
//
// A terminal session, or one already holding maxAttempts guesses, fails with
// ErrSessionClosed and is left untouched. Otherwise the guess is appended and
// the status moves to Won when it is solved, to Lost when it used the last
// attempt, and to Playing in every other case.
func (a *Attempt) AppendGuess(g Guess, maxAttempts int, now time.Time) error {
	if a.Status.IsTerminal() || len(a.Guesses) >= maxAttempts {
		return ErrSessionClosed
	}

	now = now.UTC()
	a.Guesses = append(a.Guesses, g)
	if a.StartedAt == nil {
		a.StartedAt = &now
	}

	switch {
	case g.IsSolved():
		a.Status = AttemptWon
		a.CompletedAt = &now
	case len(a.Guesses) == maxAttempts:
		a.Status = AttemptLost
		a.CompletedAt = &now
	default:
		a.Status = AttemptPlaying
	}
	a.UpdatedAt = now
	return nil
}

// IsAggregated reports whether the session's stats effects have been applied.
func (a *Attempt) IsAggregated() bool {
	return a.AggregatedAt != nil
}

// SolveDuration returns the time between the first guess and completion.
// It is zero for sessions that are not terminal.
func (a *Attempt) SolveDuration() time.Duration {
	if a.StartedAt == nil || a.CompletedAt == nil {
		return 0
	}
	return a.CompletedAt.Sub(*a.StartedAt)
}

// Clone returns a deep copy of the attempt.
func (a *Attempt) Clone() *Attempt {
	c := *a
	c.Guesses = make([]Guess, len(a.Guesses))
	for i, g := range a.Guesses {
		c.Guesses[i] = Guess{Text: g.Text, Evaluation: append([]LetterState(nil), g.Evaluation...)}
	}
	c.StartedAt = cloneTime(a.StartedAt)
	c.CompletedAt = cloneTime(a.CompletedAt)
	c.AggregatedAt = cloneTime(a.AggregatedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
