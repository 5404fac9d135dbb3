package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
)

// Event type constants
const (
	// TypeSessionCompleted is emitted once a ranked session reaches won or lost.
	TypeSessionCompleted = "codele.session_completed"
)

// Rewards granted by the external economy for a ranked win.
const (
	WinXP    = 50
	WinCoins = 10
)

// Event is a typed notification with a JSON payload.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type identifies the payload schema
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SessionCompletedPayload describes a finished ranked session and the
// rewards the economy service should grant for it.
type SessionCompletedPayload struct {
	SessionID   uuid.UUID   `json:"session_id"`
	UserID      uuid.UUID   `json:"user_id"`
	PuzzleID    uuid.UUID   `json:"puzzle_id"`
	PuzzleDate  domain.Date `json:"puzzle_date"`
	Won         bool        `json:"won"`
	Guesses     int         `json:"guesses"`
	XP          int         `json:"xp"`
	Coins       int         `json:"coins"`
	CompletedAt time.Time   `json:"completed_at"`
}

// NewSessionCompletedEvent builds the completion event for a terminal attempt.
func NewSessionCompletedEvent(a *domain.Attempt) (*Event, error) {
	p := SessionCompletedPayload{
		SessionID:  a.ID,
		UserID:     a.UserID,
		PuzzleID:   a.PuzzleID,
		PuzzleDate: a.PuzzleDate,
		Won:        a.Status == domain.AttemptWon,
		Guesses:    len(a.Guesses),
	}
	if p.Won {
		p.XP, p.Coins = WinXP, WinCoins
	}
	if a.CompletedAt != nil {
		p.CompletedAt = *a.CompletedAt
	}
	return NewEvent(TypeSessionCompleted, p)
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
