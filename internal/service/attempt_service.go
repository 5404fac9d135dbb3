package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/domain/codele"
	"github.com/phrazzld/codele-api/internal/events"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/store"
)

// Session pairs an attempt with its puzzle.
type Session struct {
	Attempt *domain.Attempt
	Puzzle  *domain.Puzzle
}

// GuessInput is one guess submission.
type GuessInput struct {
	Guess string
	// ExpectedVersion, if set, must equal the stored session version.
	ExpectedVersion *int
}

// AttemptService drives guess submission and session reads.
type AttemptService struct {
	backend     store.Backend
	puzzles     *PuzzleService
	evaluator   *codele.Evaluator
	aggregator  *StatsAggregator
	encoder     *codele.ShareEncoder
	emitter     events.EventEmitter
	maxAttempts int
	clock       Clock
	logger      *slog.Logger
}

// AttemptServiceDeps holds the collaborators of an AttemptService.
type AttemptServiceDeps struct {
	Backend     store.Backend
	Puzzles     *PuzzleService
	Evaluator   *codele.Evaluator
	Aggregator  *StatsAggregator
	Encoder     *codele.ShareEncoder
	Emitter     events.EventEmitter
	MaxAttempts int
	Clock       Clock
	Logger      *slog.Logger
}

// NewAttemptService creates an AttemptService. Emitter may be nil.
func NewAttemptService(deps AttemptServiceDeps) *AttemptService {
	if deps.Backend == nil {
		panic("backend cannot be nil")
	}
	if deps.Puzzles == nil {
		panic("puzzles cannot be nil")
	}
	if deps.Evaluator == nil {
		panic("evaluator cannot be nil")
	}
	if deps.Aggregator == nil {
		panic("aggregator cannot be nil")
	}
	if deps.Encoder == nil {
		panic("encoder cannot be nil")
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &AttemptService{
		backend:     deps.Backend,
		puzzles:     deps.Puzzles,
		evaluator:   deps.Evaluator,
		aggregator:  deps.Aggregator,
		encoder:     deps.Encoder,
		emitter:     deps.Emitter,
		maxAttempts: deps.MaxAttempts,
		clock:       deps.Clock,
		logger:      deps.Logger.With(slog.String("component", "attempt_service")),
	}
}

// Today returns today's puzzle and the user's ranked session for it, which
// is nil before the first guess.
func (s *AttemptService) Today(ctx context.Context, userID uuid.UUID) (*Session, error) {
	puzzle, err := s.puzzles.TodayPuzzle(ctx)
	if err != nil {
		return nil, err
	}

	attempt, err := s.backend.Stores().Attempts.GetRanked(ctx, userID, puzzle.ID)
	if err != nil {
		if !errors.Is(err, store.ErrAttemptNotFound) {
			return nil, NewServiceError("get_today", "failed to read session", err)
		}
		attempt = nil
	}
	return &Session{Attempt: attempt, Puzzle: puzzle}, nil
}

// SubmitToday submits a guess to the user's ranked session for today,
// creating the session on the first guess.
func (s *AttemptService) SubmitToday(ctx context.Context, userID uuid.UUID, in GuessInput) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	puzzle, err := s.puzzles.TodayPuzzle(ctx)
	if err != nil {
		return nil, err
	}

	var attempt *domain.Attempt
	err = s.backend.WithinTx(ctx, func(ctx context.Context, stores store.Stores) error {
		existing, err := stores.Attempts.GetRanked(ctx, userID, puzzle.ID)
		switch {
		case err == nil:
			attempt = existing
			return s.advance(ctx, stores, attempt, puzzle, in)
		case !errors.Is(err, store.ErrAttemptNotFound):
			return err
		}

		if in.ExpectedVersion != nil && *in.ExpectedVersion != 0 {
			return domain.ErrConcurrentModification
		}
		guess, err := s.evaluator.Score(in.Guess, puzzle.Solution)
		if err != nil {
			return err
		}
		now := s.clock.Now().UTC()
		attempt, err = domain.NewAttempt(userID, puzzle, false, now)
		if err != nil {
			return err
		}
		if err := attempt.AppendGuess(guess, s.maxAttempts, now); err != nil {
			return err
		}
		// The stored version counts persisted guesses.
		attempt.Version = 1
		if err := stores.Attempts.Create(ctx, attempt); err != nil {
			return err
		}
		return s.aggregate(ctx, stores, attempt)
	})
	if err != nil {
		log.Debug("guess rejected",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("puzzle_date", puzzle.Date.String()))
		return nil, NewServiceError("submit_guess", "failed to submit guess", err)
	}

	s.afterCommit(ctx, attempt)
	return &Session{Attempt: attempt, Puzzle: puzzle}, nil
}

// Submit submits a guess to an existing session owned by userID.
func (s *AttemptService) Submit(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	in GuessInput,
) (*Session, error) {
	var result Session
	err := s.backend.WithinTx(ctx, func(ctx context.Context, stores store.Stores) error {
		attempt, puzzle, err := s.load(ctx, stores, userID, sessionID)
		if err != nil {
			return err
		}
		if err := s.advance(ctx, stores, attempt, puzzle, in); err != nil {
			return err
		}
		result = Session{Attempt: attempt, Puzzle: puzzle}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("submit_guess", "failed to submit guess", err)
	}

	s.afterCommit(ctx, result.Attempt)
	return &result, nil
}

// Get returns a session owned by userID.
func (s *AttemptService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*Session, error) {
	attempt, puzzle, err := s.load(ctx, s.backend.Stores(), userID, sessionID)
	if err != nil {
		return nil, NewServiceError("get_session", "failed to read session", err)
	}
	return &Session{Attempt: attempt, Puzzle: puzzle}, nil
}

// Share renders the share text of a finished session owned by userID.
func (s *AttemptService) Share(ctx context.Context, userID, sessionID uuid.UUID) (string, error) {
	sess, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	text, err := s.encoder.Encode(sess.Puzzle, sess.Attempt)
	if err != nil {
		return "", NewServiceError("share_session", "failed to encode share text", err)
	}
	return text, nil
}

func (s *AttemptService) load(
	ctx context.Context,
	stores store.Stores,
	userID, sessionID uuid.UUID,
) (*domain.Attempt, *domain.Puzzle, error) {
	attempt, err := stores.Attempts.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrAttemptNotFound) {
			return nil, nil, domain.ErrSessionNotFound
		}
		return nil, nil, err
	}
	if attempt.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("session accessed by non-owner",
			slog.String("session_id", sessionID.String()),
			slog.String("user_id", userID.String()))
		return nil, nil, domain.ErrSessionNotOwned
	}
	puzzle, err := stores.Puzzles.GetByID(ctx, attempt.PuzzleID)
	if err != nil {
		return nil, nil, err
	}
	return attempt, puzzle, nil
}

// advance scores in against puzzle and appends it to a stored attempt,
// persisting it with a version check. A closed session is rejected before
// the guess is looked at.
func (s *AttemptService) advance(
	ctx context.Context,
	stores store.Stores,
	attempt *domain.Attempt,
	puzzle *domain.Puzzle,
	in GuessInput,
) error {
	if attempt.Status.IsTerminal() || len(attempt.Guesses) >= s.maxAttempts {
		return domain.ErrSessionClosed
	}
	if in.ExpectedVersion != nil && *in.ExpectedVersion != attempt.Version {
		return domain.ErrConcurrentModification
	}
	guess, err := s.evaluator.Score(in.Guess, puzzle.Solution)
	if err != nil {
		return err
	}

	now := s.clock.Now().UTC()
	if err := attempt.AppendGuess(guess, s.maxAttempts, now); err != nil {
		return err
	}
	if err := stores.Attempts.Update(ctx, attempt); err != nil {
		return err
	}
	return s.aggregate(ctx, stores, attempt)
}

func (s *AttemptService) aggregate(ctx context.Context, stores store.Stores, attempt *domain.Attempt) error {
	if attempt.IsPractice || !attempt.Status.IsTerminal() {
		return nil
	}
	_, err := s.aggregator.Apply(ctx, stores, attempt, s.clock.Now())
	return err
}

// afterCommit publishes the completion event of a newly finished ranked session.
func (s *AttemptService) afterCommit(ctx context.Context, attempt *domain.Attempt) {
	if s.emitter == nil || attempt.IsPractice || !attempt.Status.IsTerminal() {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewSessionCompletedEvent(attempt)
	if err != nil {
		log.Error("failed to build completion event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit completion event",
			slog.String("error", err.Error()),
			slog.String("session_id", attempt.ID.String()))
	}
}
