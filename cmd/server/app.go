package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/codele-api/internal/config"
	"github.com/phrazzld/codele-api/internal/domain/codele"
	"github.com/phrazzld/codele-api/internal/events"
	"github.com/phrazzld/codele-api/internal/ratelimit"
	"github.com/phrazzld/codele-api/internal/service"
	"github.com/phrazzld/codele-api/internal/service/auth"
	"github.com/phrazzld/codele-api/internal/store"
	"github.com/phrazzld/codele-api/internal/task"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	backend store.Backend

	jwtService  auth.JWTService
	puzzles     *service.PuzzleService
	attempts    *service.AttemptService
	archive     *service.ArchiveService
	aggregator  *service.StatsAggregator
	leaderboard *service.LeaderboardService

	emitter      *events.InMemoryEventEmitter
	scheduler    *task.Scheduler
	guessLimiter *ratelimit.KeyedRateLimiter
}

// newApplication wires every service onto backend. A corpus too small for
// the lookback window fails here with domain.ErrCorpusExhausted.
func newApplication(cfg *config.Config, logger *slog.Logger, backend store.Backend) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		backend: backend,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	loc, err := cfg.Game.Location()
	if err != nil {
		return nil, err
	}
	launch, err := cfg.Game.Launch()
	if err != nil {
		return nil, err
	}

	params := codele.NewParams(codele.ParamsConfig{
		WordLength:        cfg.Game.WordLength,
		MaxAttempts:       cfg.Game.MaxAttempts,
		LookbackDays:      &cfg.Game.LookbackDays,
		SelectionSeed:     cfg.Game.SelectionSeed,
		LaunchDate:        launch,
		EnforceDictionary: &cfg.Game.EnforceDictionary,
		CoinsPerWin:       &cfg.Leaderboard.CoinsPerWin,
	})

	corpus, err := codele.DefaultCorpus(params.WordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to load word corpus: %w", err)
	}
	selector, err := codele.NewSelectorFromParams(corpus, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build puzzle selector: %w", err)
	}
	logger.Info("word corpus loaded",
		"solutions", corpus.Size(),
		"word_length", corpus.WordLength(),
		"lookback_days", params.LookbackDays)

	clock := service.SystemClock
	app.puzzles = service.NewPuzzleService(backend.Stores().Puzzles, selector, clock, loc, logger)
	app.aggregator = service.NewStatsAggregator(backend, params.MaxAttempts, clock, logger)
	app.archive = service.NewArchiveService(backend, app.puzzles, clock, logger)
	app.leaderboard = service.NewLeaderboardService(
		backend,
		app.puzzles,
		codele.NewRanker(params.CoinsPerWin),
		cfg.Leaderboard.DefaultPageSize,
		cfg.Leaderboard.MaxPageSize,
		clock,
		logger,
	)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.attempts = service.NewAttemptService(service.AttemptServiceDeps{
		Backend:    backend,
		Puzzles:    app.puzzles,
		Evaluator:  codele.NewEvaluator(corpus, params.EnforceDictionary),
		Aggregator: app.aggregator,
		Encoder: codele.NewShareEncoder(codele.ShareConfig{
			ProductName: cfg.Share.ProductName,
			Tagline:     cfg.Share.Tagline,
			Prompt:      cfg.Share.Prompt,
			Link:        cfg.Share.Link,
			MaxAttempts: params.MaxAttempts,
		}),
		Emitter:     app.emitter,
		MaxAttempts: params.MaxAttempts,
		Clock:       clock,
		Logger:      logger,
	})

	app.scheduler, err = setupScheduler(app)
	if err != nil {
		return nil, err
	}
	app.emitter.RegisterHandler(events.NewRewardLogHandler(logger))
	app.emitter.RegisterHandler(task.NewRecomputeOnCompletion(app.scheduler, logger))

	app.guessLimiter = ratelimit.New(cfg.Server.GuessRateLimit, cfg.Server.GuessBurst)

	logger.Info("application initialized")
	return app, nil
}

// setupScheduler registers the leaderboard and reconciliation jobs. Both run
// once at startup so a fresh process serves current standings.
func setupScheduler(app *application) (*task.Scheduler, error) {
	s := task.NewScheduler(app.logger)
	lb := app.config.Leaderboard

	if err := s.Register(task.NewLeaderboardJob(app.leaderboard), lb.RecomputeInterval, true); err != nil {
		return nil, err
	}
	if err := s.Register(task.NewReconcileJob(app.aggregator, lb.ReconcileBatch), lb.ReconcileInterval, true); err != nil {
		return nil, err
	}
	return s, nil
}

// Run starts background jobs and serves HTTP until ctx is cancelled or a
// shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	app.scheduler.Start()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources in reverse start order.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}
	if app.guessLimiter != nil {
		app.guessLimiter.Stop()
	}
	if app.backend != nil {
		if err := app.backend.Close(); err != nil {
			app.logger.Error("error closing storage backend", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
