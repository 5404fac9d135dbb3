package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/codele-api/internal/platform/logger"
)

// InMemoryEventEmitter stores registered handlers in memory and dispatches
// events to them synchronously, in registration order.
type InMemoryEventEmitter struct {
	handlers []EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// Ensure InMemoryEventEmitter implements EventEmitter interface
var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers: make([]EventHandler, 0),
		logger:   logger.With(slog.String("component", "event_emitter")),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", slog.Int("handler_count", len(e.handlers)))
}

// EmitEvent publishes the given event to all registered handlers.
// If any handler returns an error, the event will still be sent to all other handlers,
// and the first error encountered will be returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	log := logger.FromContextOrDefault(ctx, e.logger)

	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	log.Debug("emitting event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Int("handler_count", len(handlers)))

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("handler failed to process event",
				slog.String("error", err.Error()),
				slog.Int("handler_index", i),
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.Type))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// NewRewardLogHandler returns a handler that records completion rewards in
// the log, where the economy service's log shipper picks them up.
func NewRewardLogHandler(log *slog.Logger) EventHandler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "reward_publisher"))
	return HandlerFunc(func(ctx context.Context, event *Event) error {
		if event.Type != TypeSessionCompleted {
			return nil
		}
		var p SessionCompletedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		log.Info("session completed",
			slog.String("event_id", event.ID.String()),
			slog.String("user_id", p.UserID.String()),
			slog.String("puzzle_date", p.PuzzleDate.String()),
			slog.Bool("won", p.Won),
			slog.Int("guesses", p.Guesses),
			slog.Int("xp", p.XP),
			slog.Int("coins", p.Coins))
		return nil
	})
}
