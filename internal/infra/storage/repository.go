// Package storage provides the persistence sinks of the simulator: the
// human-readable weekly log and the SQLite ledger.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// LedgerEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type LedgerEvent struct {
	ID        string         `json:"id" db:"id"`
	SessionID string         `json:"session_id" db:"session_id"`
	Timestamp time.Time      `json:"timestamp" db:"timestamp"`
	EventType string         `json:"event_type" db:"event_type"`
	ActorID   string         `json:"actor_id" db:"actor_id"`
	Year      int            `json:"year" db:"year"`
	Week      int            `json:"week" db:"week"`
	Payload   map[string]any `json:"payload" db:"payload"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event LedgerEvent) error
}

// WeekRecord is the financial outcome of one settled week.
type WeekRecord struct {
	SessionID   string `json:"session_id" db:"session_id"`
	Year        int    `json:"year" db:"year"`
	Week        int    `json:"week" db:"week"`
	Income      int    `json:"income" db:"income"`
	Maintenance int    `json:"maintenance" db:"maintenance"`
	Net         int    `json:"net" db:"net"`
	Capital     int    `json:"capital" db:"capital"`
}

// YearReview aggregates the settled weeks of one year.
type YearReview struct {
	Weeks            int
	TotalIncome      int
	TotalMaintenance int
	BestWeek         *WeekRecord
	WorstWeek        *WeekRecord
}

// WeekRepository defines the interface for per-week settlement records.
type WeekRepository interface {
	// RecordWeek stores the settlement of one week.
	RecordWeek(ctx context.Context, rec WeekRecord) error

	// ReviewYear aggregates every settled week of a year.
	ReviewYear(ctx context.Context, sessionID string, year int) (*YearReview, error)
}
