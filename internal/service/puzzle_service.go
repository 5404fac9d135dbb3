package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/domain/codele"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
	"golang.org/x/sync/singleflight"
)

// PuzzleService resolves dates to persisted puzzles.
//
// The first request for a date selects the puzzle and writes it to the
// store; every later request reads the stored record, so editing the corpus
// never changes a puzzle that has already been served.
type PuzzleService struct {
	puzzles  store.PuzzleStore
	selector *codele.Selector
	clock    Clock
	loc      *time.Location
	group    singleflight.Group
	logger   *slog.Logger
}

// NewPuzzleService creates a PuzzleService dating puzzles in loc.
func NewPuzzleService(
	puzzles store.PuzzleStore,
	selector *codele.Selector,
	clock Clock,
	loc *time.Location,
	logger *slog.Logger,
) *PuzzleService {
	if puzzles == nil {
		panic("puzzles cannot be nil")
	}
	if selector == nil {
		panic("selector cannot be nil")
	}
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PuzzleService{
		puzzles:  puzzles,
		selector: selector,
		clock:    clock,
		loc:      loc,
		logger:   logger.With(slog.String("component", "puzzle_service")),
	}
}

// Today returns the current date in the canonical timezone.
func (s *PuzzleService) Today() domain.Date {
	return domain.DateIn(s.clock.Now(), s.loc)
}

// Launch returns the first playable date.
func (s *PuzzleService) Launch() domain.Date {
	return s.selector.Launch()
}

// Number returns the puzzle number for date.
func (s *PuzzleService) Number(date domain.Date) int {
	return s.selector.Number(date)
}

// TodayPuzzle returns today's puzzle, materializing it if needed.
func (s *PuzzleService) TodayPuzzle(ctx context.Context) (*domain.Puzzle, error) {
	return s.PuzzleFor(ctx, s.Today())
}

// PuzzleFor returns the puzzle for date, materializing it if needed.
// It does not restrict date beyond the launch date; callers enforce
// which dates a user may see.
func (s *PuzzleService) PuzzleFor(ctx context.Context, date domain.Date) (*domain.Puzzle, error) {
	p, err := s.puzzles.GetByDate(ctx, date)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrPuzzleNotFound) {
		return nil, NewServiceError("get_puzzle", "failed to read puzzle", err)
	}

	v, err, _ := s.group.Do(date.String(), func() (any, error) {
		return s.materialize(ctx, date)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Puzzle), nil
}

func (s *PuzzleService) materialize(ctx context.Context, date domain.Date) (*domain.Puzzle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	selected, err := s.selector.Select(date)
	if err != nil {
		return nil, NewServiceError("select_puzzle", "failed to select puzzle", err)
	}
	selected.CreatedAt = s.clock.Now().UTC()

	if err := s.puzzles.CreateIfAbsent(ctx, selected); err != nil {
		log.Error("failed to persist puzzle",
			slog.String("error", err.Error()),
			slog.String("puzzle_date", date.String()))
		return nil, NewServiceError("select_puzzle", "failed to persist puzzle", err)
	}

	// Re-read so a concurrent writer's record wins.
	p, err := s.puzzles.GetByDate(ctx, date)
	if err != nil {
		return nil, NewServiceError("select_puzzle", "failed to read puzzle", err)
	}
	return p, nil
}

// GetByID returns a persisted puzzle.
func (s *PuzzleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Puzzle, error) {
	p, err := s.puzzles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrPuzzleNotFound) {
			return nil, domain.ErrPuzzleNotAvailable
		}
		return nil, NewServiceError("get_puzzle", "failed to read puzzle", err)
	}
	return p, nil
}
