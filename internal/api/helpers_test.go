package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apimw "github.com/phrazzld/codele-api/internal/api/middleware"
	"github.com/phrazzld/codele-api/internal/api/shared"
	"github.com/phrazzld/codele-api/internal/config"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/domain/codele"
	"github.com/phrazzld/codele-api/internal/events"
	"github.com/phrazzld/codele-api/internal/platform/logger"
	"github.com/phrazzld/codele-api/internal/platform/memory"
	"github.com/phrazzld/codele-api/internal/ratelimit"
	"github.com/phrazzld/codele-api/internal/service"
	"github.com/phrazzld/codele-api/internal/service/auth"
)

const (
	testMaxAttempts = 6
	testSecret      = "test-secret-that-is-long-enough-for-testing"
)

var (
	testLaunch = domain.NewDate(2024, time.January, 1)
	testToday  = domain.NewDate(2024, time.August, 17)
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type testServer struct {
	router      http.Handler
	jwt         auth.JWTService
	corpus      *codele.Corpus
	puzzles     *service.PuzzleService
	leaderboard *service.LeaderboardService
}

func newTestServer(t *testing.T, guessBurst int) *testServer {
	t.Helper()

	log, _ := logger.NewBufferLogger()
	corpus, err := codele.DefaultCorpus(5)
	require.NoError(t, err)
	selector, err := codele.NewSelector(corpus, "codele", 365, testLaunch)
	require.NoError(t, err)
	clock := &testClock{now: testToday.Time().Add(12 * time.Hour)}

	backend := memory.NewBackend(log)
	puzzles := service.NewPuzzleService(backend.Stores().Puzzles, selector, clock, time.UTC, log)
	aggregator := service.NewStatsAggregator(backend, testMaxAttempts, clock, log)
	attempts := service.NewAttemptService(service.AttemptServiceDeps{
		Backend:     backend,
		Puzzles:     puzzles,
		Evaluator:   codele.NewEvaluator(corpus, true),
		Aggregator:  aggregator,
		Encoder:     codele.NewShareEncoder(codele.DefaultShareConfig()),
		Emitter:     events.NewInMemoryEventEmitter(log),
		MaxAttempts: testMaxAttempts,
		Clock:       clock,
		Logger:      log,
	})
	archive := service.NewArchiveService(backend, puzzles, clock, log)
	leaderboard := service.NewLeaderboardService(backend, puzzles, codele.NewRanker(10), 20, 100, clock, log)

	jwtSvc, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)

	limiter := ratelimit.New(0.001, guessBurst)
	t.Cleanup(limiter.Stop)

	r := chi.NewRouter()
	r.Use(apimw.NewTraceMiddleware(log))
	Routes(r, Handlers{
		Game:    NewGameHandler(attempts, testMaxAttempts, log),
		Archive: NewArchiveHandler(archive, testMaxAttempts, log),
		Player:  NewPlayerHandler(aggregator, leaderboard, log),
	}, Middlewares{
		Authenticate: apimw.NewAuthMiddleware(jwtSvc).Authenticate,
		GuessLimit:   apimw.NewUserRateLimit(limiter),
	})

	return &testServer{
		router:      r,
		jwt:         jwtSvc,
		corpus:      corpus,
		puzzles:     puzzles,
		leaderboard: leaderboard,
	}
}

func (s *testServer) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := s.jwt.GenerateToken(context.Background(), userID, time.Hour)
	require.NoError(t, err)
	return tok
}

// do sends a request as userID; a nil user sends no Authorization header.
func (s *testServer) do(t *testing.T, userID uuid.UUID, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, BasePath+path, rd)
	if userID != uuid.Nil {
		r.Header.Set("Authorization", "Bearer "+s.token(t, userID))
	}
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *testServer) solution(t *testing.T) string {
	t.Helper()
	p, err := s.puzzles.TodayPuzzle(context.Background())
	require.NoError(t, err)
	return p.Solution
}

func (s *testServer) wrong(solution string) string {
	for i := 0; i < s.corpus.Size(); i++ {
		if w := s.corpus.Solution(i); w != solution {
			return w
		}
	}
	panic("corpus has a single word")
}

func guessBody(word string) string {
	return `{"guess":"` + word + `"}`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	return decode[shared.ErrorResponse](t, w)
}
