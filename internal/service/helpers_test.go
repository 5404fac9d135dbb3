package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/domain/codele"
	"github.com/phrazzld/codele-api/internal/events"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/platform/memory"
	"github.com/stretchr/testify/require"
)

const testMaxAttempts = 6

var testLaunch = domain.NewDate(2024, time.January, 1)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// SetDate moves the clock to noon UTC on d.
func (c *testClock) SetDate(d domain.Date) {
	c.Set(d.Time().Add(12 * time.Hour))
}

type recordingHandler struct {
	mu     sync.Mutex
	events []*events.Event
}

func (h *recordingHandler) HandleEvent(_ context.Context, e *events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
	return nil
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

type fixture struct {
	backend     *memory.Backend
	clock       *testClock
	corpus      *codele.Corpus
	selector    *codele.Selector
	puzzles     *PuzzleService
	aggregator  *StatsAggregator
	attempts    *AttemptService
	archive     *ArchiveService
	leaderboard *LeaderboardService
	handler     *recordingHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, _ := logger.NewBufferLogger()
	corpus, err := codele.DefaultCorpus(5)
	require.NoError(t, err)
	selector, err := codele.NewSelector(corpus, "codele", 365, testLaunch)
	require.NoError(t, err)

	clock := &testClock{}
	clock.SetDate(domain.NewDate(2024, time.August, 17))

	backend := memory.NewBackend(log)
	handler := &recordingHandler{}
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(handler)

	puzzles := NewPuzzleService(backend.Stores().Puzzles, selector, clock, time.UTC, log)
	aggregator := NewStatsAggregator(backend, testMaxAttempts, clock, log)
	encoder := codele.NewShareEncoder(codele.DefaultShareConfig())

	return &fixture{
		backend:    backend,
		clock:      clock,
		corpus:     corpus,
		selector:   selector,
		puzzles:    puzzles,
		aggregator: aggregator,
		attempts: NewAttemptService(AttemptServiceDeps{
			Backend:     backend,
			Puzzles:     puzzles,
			Evaluator:   codele.NewEvaluator(corpus, true),
			Aggregator:  aggregator,
			Encoder:     encoder,
			Emitter:     emitter,
			MaxAttempts: testMaxAttempts,
			Clock:       clock,
			Logger:      log,
		}),
		archive:     NewArchiveService(backend, puzzles, clock, log),
		leaderboard: NewLeaderboardService(backend, puzzles, codele.NewRanker(10), 2, 5, clock, log),
		handler:     handler,
	}
}

// solution returns the solution of today's puzzle.
func (f *fixture) solution(t *testing.T) string {
	t.Helper()
	p, err := f.puzzles.TodayPuzzle(context.Background())
	require.NoError(t, err)
	return p.Solution
}

// wrong returns an accepted word other than solution.
func (f *fixture) wrong(solution string) string {
	for i := 0; i < f.corpus.Size(); i++ {
		if w := f.corpus.Solution(i); w != solution {
			return w
		}
	}
	panic("corpus has a single word")
}

// playToday finishes today's ranked session for userID, winning on guess
// n (1-based) or losing when n is 0.
func (f *fixture) playToday(t *testing.T, userID uuid.UUID, n int) *Session {
	t.Helper()
	ctx := context.Background()
	solution := f.solution(t)

	var sess *Session
	var err error
	for i := 1; i <= testMaxAttempts; i++ {
		guess := f.wrong(solution)
		if i == n {
			guess = solution
		}
		sess, err = f.attempts.SubmitToday(ctx, userID, GuessInput{Guess: guess})
		require.NoError(t, err)
		if sess.Attempt.Status.IsTerminal() {
			break
		}
	}
	return sess
}

func intPtr(v int) *int { return &v }
