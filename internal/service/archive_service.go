package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

// MaxCalendarDays bounds one calendar request.
const MaxCalendarDays = 62

// DefaultCalendarDays is the range served when the caller gives no start date.
const DefaultCalendarDays = 30

// CalendarStatus is the outcome shown for one calendar day.
type CalendarStatus string

// Calendar statuses
const (
	CalendarUnplayed CalendarStatus = "unplayed"
	CalendarPlayed   CalendarStatus = "played"
	CalendarWon      CalendarStatus = "won"
	CalendarLost     CalendarStatus = "lost"
)

// CalendarDay summarizes the caller's play on one date.
type CalendarDay struct {
	Date       domain.Date    `json:"date"`
	Number     int            `json:"number"`
	Status     CalendarStatus `json:"status"`
	GuessCount int            `json:"guess_count"`
	Practice   bool           `json:"practice"`
	SessionID  *uuid.UUID     `json:"session_id,omitempty"`
}

// ArchiveService exposes past puzzles and their practice replays.
type ArchiveService struct {
	backend store.Backend
	puzzles *PuzzleService
	clock   Clock
	logger  *slog.Logger
}

// NewArchiveService creates an ArchiveService.
func NewArchiveService(backend store.Backend, puzzles *PuzzleService, clock Clock, logger *slog.Logger) *ArchiveService {
	if backend == nil {
		panic("backend cannot be nil")
	}
	if puzzles == nil {
		panic("puzzles cannot be nil")
	}
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveService{
		backend: backend,
		puzzles: puzzles,
		clock:   clock,
		logger:  logger.With(slog.String("component", "archive_service")),
	}
}

// PuzzleForDate returns the puzzle of a past date. Dates before the launch
// date, today and future dates fail with ErrPuzzleNotAvailable.
func (s *ArchiveService) PuzzleForDate(ctx context.Context, date domain.Date) (*domain.Puzzle, error) {
	if !s.inArchive(date) {
		return nil, domain.ErrPuzzleNotAvailable
	}
	return s.puzzles.PuzzleFor(ctx, date)
}

func (s *ArchiveService) inArchive(date domain.Date) bool {
	return !date.Before(s.puzzles.Launch()) && date.Before(s.puzzles.Today())
}

// StartPracticeSession creates a practice session on an archived puzzle.
// Puzzle IDs are derived from dates, so an archive puzzle that was never
// read is still found and materialized.
func (s *ArchiveService) StartPracticeSession(ctx context.Context, userID, puzzleID uuid.UUID) (*Session, error) {
	puzzle, err := s.puzzles.GetByID(ctx, puzzleID)
	switch {
	case errors.Is(err, domain.ErrPuzzleNotAvailable):
		date, ok := s.archiveDateFor(puzzleID)
		if !ok {
			return nil, err
		}
		return s.StartPracticeForDate(ctx, userID, date)
	case err != nil:
		return nil, err
	}
	if !s.inArchive(puzzle.Date) {
		return nil, domain.ErrPuzzleNotAvailable
	}
	return s.startPractice(ctx, userID, puzzle)
}

// archiveDateFor finds the archive date whose puzzle ID is id.
func (s *ArchiveService) archiveDateFor(id uuid.UUID) (domain.Date, bool) {
	today := s.puzzles.Today()
	for d := s.puzzles.Launch(); d.Before(today); d = d.AddDays(1) {
		if domain.PuzzleIDForDate(d) == id {
			return d, true
		}
	}
	return domain.Date{}, false
}

// StartPracticeForDate creates a practice session on the puzzle of a past date.
func (s *ArchiveService) StartPracticeForDate(ctx context.Context, userID uuid.UUID, date domain.Date) (*Session, error) {
	puzzle, err := s.PuzzleForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.startPractice(ctx, userID, puzzle)
}

func (s *ArchiveService) startPractice(ctx context.Context, userID uuid.UUID, puzzle *domain.Puzzle) (*Session, error) {
	attempt, err := domain.NewAttempt(userID, puzzle, true, s.clock.Now())
	if err != nil {
		return nil, NewServiceError("start_practice", "invalid practice session", err)
	}
	if err := s.backend.Stores().Attempts.Create(ctx, attempt); err != nil {
		return nil, NewServiceError("start_practice", "failed to create practice session", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("practice session started",
		slog.String("session_id", attempt.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("puzzle_date", puzzle.Date.String()))
	return &Session{Attempt: attempt, Puzzle: puzzle}, nil
}

// Calendar returns one entry per day in [from, to], clamped to the launch
// date and today. A zero to means today; a zero from means
// DefaultCalendarDays before to. The ranked session decides a day's status
// when present; otherwise the latest practice session does.
func (s *ArchiveService) Calendar(ctx context.Context, userID uuid.UUID, from, to domain.Date) ([]CalendarDay, error) {
	today := s.puzzles.Today()
	if to.IsZero() || to.After(today) {
		to = today
	}
	if from.IsZero() {
		from = to.AddDays(-(DefaultCalendarDays - 1))
	}
	if launch := s.puzzles.Launch(); from.Before(launch) {
		from = launch
	}
	if from.After(to) {
		return []CalendarDay{}, nil
	}
	if from.DaysUntil(to)+1 > MaxCalendarDays {
		return nil, domain.NewValidationError("to", "calendar range exceeds 62 days", nil)
	}

	attempts, err := s.backend.Stores().Attempts.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, NewServiceError("get_calendar", "failed to list sessions", err)
	}

	ranked := make(map[domain.Date]*domain.Attempt)
	practice := make(map[domain.Date]*domain.Attempt)
	for _, a := range attempts {
		if a.IsPractice {
			// Attempts arrive oldest first, so the last one wins.
			practice[a.PuzzleDate] = a
		} else {
			ranked[a.PuzzleDate] = a
		}
	}

	days := make([]CalendarDay, 0, from.DaysUntil(to)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		day := CalendarDay{Date: d, Number: s.puzzles.Number(d), Status: CalendarUnplayed}
		a, ok := ranked[d]
		if !ok {
			a, ok = practice[d]
		}
		if ok {
			id := a.ID
			day.SessionID = &id
			day.Status = calendarStatus(a.Status)
			day.GuessCount = len(a.Guesses)
			day.Practice = a.IsPractice
		}
		days = append(days, day)
	}
	return days, nil
}

func calendarStatus(s domain.AttemptStatus) CalendarStatus {
	switch s {
	case domain.AttemptWon:
		return CalendarWon
	case domain.AttemptLost:
		return CalendarLost
	default:
		return CalendarPlayed
	}
}
