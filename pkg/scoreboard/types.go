package scoreboard

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names the display change an Event carries.
type EventType string

const (
	// EventCountdown carries the turn countdown (or elapsed time) in Millis
	EventCountdown EventType = "countdown"

	// EventItemPlaced carries Item placed on Slot
	EventItemPlaced EventType = "item_placed"

	// EventItemRemoved carries the cleared Slot
	EventItemRemoved EventType = "item_removed"

	// EventTokenPlaced carries Player marking Slot
	EventTokenPlaced EventType = "token_placed"

	// EventTokenRemoved carries Player unmarking Slot
	EventTokenRemoved EventType = "token_removed"

	// EventScore carries the new Score of Player
	EventScore EventType = "score"

	// EventFreeze carries the remaining freeze of Player in Millis (0 = thawed)
	EventFreeze EventType = "freeze"

	// EventWinners carries the final Winners list
	EventWinners EventType = "winners"
)

// Validate checks that the event type is one of the known types.
func (t EventType) Validate() error {
	switch t {
	case EventCountdown, EventItemPlaced, EventItemRemoved, EventTokenPlaced,
		EventTokenRemoved, EventScore, EventFreeze, EventWinners:
		return nil
	}
	return fmt.Errorf("unknown event type: %q", t)
}

// Event is one display change, as published on the events channel.
// Only the fields relevant to Type are meaningful.
type Event struct {
	ID      string    `json:"id"`   // UUID, unique per event
	Type    EventType `json:"type"` // What changed
	Player  int       `json:"player"`
	Slot    int       `json:"slot"`
	Item    int       `json:"item"`
	Score   int       `json:"score"`
	Millis  int64     `json:"millis"`
	Warn    bool      `json:"warn,omitempty"`
	Winners []int     `json:"winners,omitempty"`
	AtMs    int64     `json:"at_ms"` // Unix milliseconds when the event was created
}

// NewEvent creates an event of the given type with a fresh ID and timestamp.
func NewEvent(t EventType) *Event {
	return &Event{
		ID:   uuid.New().String(),
		Type: t,
		AtMs: time.Now().UnixMilli(),
	}
}

// Validate checks the event is well formed for its type.
func (e *Event) Validate() error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("invalid event id: %w", err)
	}
	if err := e.Type.Validate(); err != nil {
		return err
	}

	switch e.Type {
	case EventItemPlaced:
		if e.Item < 0 || e.Slot < 0 {
			return fmt.Errorf("%s event needs non-negative item and slot", e.Type)
		}
	case EventItemRemoved:
		if e.Slot < 0 {
			return fmt.Errorf("%s event needs a non-negative slot", e.Type)
		}
	case EventTokenPlaced, EventTokenRemoved:
		if e.Player < 0 || e.Slot < 0 {
			return fmt.Errorf("%s event needs non-negative player and slot", e.Type)
		}
	case EventScore:
		if e.Player < 0 || e.Score < 0 {
			return fmt.Errorf("%s event needs non-negative player and score", e.Type)
		}
	case EventFreeze:
		if e.Player < 0 || e.Millis < 0 {
			return fmt.Errorf("%s event needs non-negative player and millis", e.Type)
		}
	}
	return nil
}
