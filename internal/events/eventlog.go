// Package events provides the append-only record of everything that happened
// to the tower during a session.
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeYearStarted   EventType = "YEAR_STARTED"
	EventTypeFloorBuilt    EventType = "FLOOR_BUILT"
	EventTypeTenantMovedIn EventType = "TENANT_MOVED_IN"
	EventTypeTurnSkipped   EventType = "TURN_SKIPPED"
	EventTypeForcedSpend   EventType = "FORCED_SPEND"
	EventTypeWeekSettled   EventType = "WEEK_SETTLED"
	EventTypeFastForward   EventType = "FAST_FORWARD"
	EventTypeYearEnded     EventType = "YEAR_ENDED"
	EventTypeBankruptcy    EventType = "BANKRUPTCY"
)

const (
	ActorPlayer = "PLAYER"
	ActorSystem = "SYSTEM"
)

// FloorBuiltPayload is attached to EventTypeFloorBuilt.
type FloorBuiltPayload struct {
	Floor int    `json:"floor"`
	Type  string `json:"type"`
	Cost  int    `json:"cost"`
}

// TenantMovedInPayload is attached to EventTypeTenantMovedIn.
type TenantMovedInPayload struct {
	Floor  int    `json:"floor"`
	Tenant string `json:"tenant"`
}

// ForcedSpendPayload is attached to EventTypeForcedSpend.
type ForcedSpendPayload struct {
	Flow string `json:"flow"` // "build" or "assign"
}

// YearPayload is attached to year boundary events.
type YearPayload struct {
	Tower   string `json:"tower"`
	Capital int    `json:"capital"`
	Verdict string `json:"verdict,omitempty"`
}

// GameEvent represents an immutable record of an action in the game.
type GameEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ActorID   string    `json:"actor_id"`
	Year      int       `json:"year"`
	Week      int       `json:"week"`
	Payload   any       `json:"payload"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
// The game is single-threaded, so writes go through to the persister synchronously.
type EventLog struct {
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Missing IDs and timestamps are filled in.
// The event is kept in memory even if the persister fails.
func (el *EventLog) Append(event GameEvent) error {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	el.events = append(el.events, event)

	if el.persister != nil {
		return el.persister.Append(event)
	}
	return nil
}

// GetByYear returns all events of one year of the session.
func (el *EventLog) GetByYear(year int) []GameEvent {
	var result []GameEvent
	for _, e := range el.events {
		if e.Year == year {
			result = append(result, e)
		}
	}
	return result
}

// CountByType tallies the events of one year by type.
func (el *EventLog) CountByType(year int) map[EventType]int {
	counts := make(map[EventType]int)
	for _, e := range el.GetByYear(year) {
		counts[e.Type]++
	}
	return counts
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
