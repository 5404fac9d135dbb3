package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/codele-api/internal/platform/logger"
)

// Scheduler runs registered jobs on fixed intervals. A job never overlaps
// with itself; a trigger that arrives while the job runs is coalesced into
// one extra run.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	started bool

	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	logger     *slog.Logger
	errHandler func(job Job, err error)
}

type entry struct {
	job      Job
	interval time.Duration
	runNow   bool
	trigger  chan struct{}
}

// NewScheduler creates a Scheduler.
func NewScheduler(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "scheduler"))

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		entries:    make(map[string]*entry),
		ctx:        logger.WithLogger(ctx, log),
		cancelFunc: cancel,
		logger:     log,
		errHandler: func(job Job, err error) {
			log.Error("job failed",
				slog.String("job", job.Name()),
				slog.String("error", err.Error()))
		},
	}
}

// SetErrorHandler replaces the default handler, which logs the failure.
func (s *Scheduler) SetErrorHandler(handler func(job Job, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errHandler = handler
}

// Register adds job to run every interval. With runNow it also runs once
// immediately after Start. Register must be called before Start.
func (s *Scheduler) Register(job Job, interval time.Duration, runNow bool) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("job %s: scheduler already started", job.Name())
	}
	if _, ok := s.entries[job.Name()]; ok {
		return fmt.Errorf("job %s: already registered", job.Name())
	}
	s.entries[job.Name()] = &entry{
		job:      job,
		interval: interval,
		runNow:   runNow,
		trigger:  make(chan struct{}, 1),
	}
	return nil
}

// Start launches one goroutine per registered job.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, e := range s.entries {
		s.wg.Add(1)
		go s.loop(e)
	}
	s.logger.Info("scheduler started", slog.Int("jobs", len(s.entries)))
}

// Trigger asks the named job to run as soon as possible. It reports whether
// the job exists. Triggers never block.
func (s *Scheduler) Trigger(name string) bool {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case e.trigger <- struct{}{}:
	default:
	}
	return true
}

// Stop cancels running jobs and waits for every loop to exit.
func (s *Scheduler) Stop() {
	s.cancelFunc()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(e *entry) {
	defer s.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	if e.runNow {
		s.run(e.job)
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.run(e.job)
		case <-e.trigger:
			s.run(e.job)
		}
	}
}

func (s *Scheduler) run(job Job) {
	if s.ctx.Err() != nil {
		return
	}
	log := s.logger.With(slog.String("job", job.Name()))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.handleError(job, fmt.Errorf("job panicked: %v", r))
		}
	}()

	if err := job.Run(s.ctx); err != nil {
		s.handleError(job, err)
		return
	}
	log.Debug("job completed", slog.Duration("duration", time.Since(start)))
}

func (s *Scheduler) handleError(job Job, err error) {
	s.mu.Lock()
	h := s.errHandler
	s.mu.Unlock()
	h(job, err)
}
