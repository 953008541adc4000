// Package metrics counts ledger writes and settlements for diagnostics.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers timing and error counters of a session.
type Collector struct {
	// Ledger event writes
	EventsWritten    int64
	EventWriteLatSum int64 // nanoseconds
	EventWriteLatMax int64
	EventWriteErrors int64

	// Week settlements
	Settlements      int64
	SettleLatSum     int64
	SettleLatMax     int64
	SettlementErrors int64

	StartTime time.Time
	mu        sync.Mutex
}

// New starts a collector clock.
func New() *Collector {
	return &Collector{StartTime: time.Now()}
}

// RecordEventWrite records one event persisted to the ledger.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))
	c.bumpMax(&c.EventWriteLatMax, latency)
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordSettlement records one settled week including its log writes.
func (c *Collector) RecordSettlement(latency time.Duration, err error) {
	atomic.AddInt64(&c.Settlements, 1)
	atomic.AddInt64(&c.SettleLatSum, int64(latency))
	c.bumpMax(&c.SettleLatMax, latency)
	if err != nil {
		atomic.AddInt64(&c.SettlementErrors, 1)
	}
}

func (c *Collector) bumpMax(field *int64, latency time.Duration) {
	c.mu.Lock()
	if int64(latency) > *field {
		*field = int64(latency)
	}
	c.mu.Unlock()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Uptime           time.Duration
	EventsWritten    int64
	EventWriteAvg    time.Duration
	EventWriteMax    time.Duration
	EventWriteErrors int64
	Settlements      int64
	SettleAvg        time.Duration
	SettleMax        time.Duration
	SettlementErrors int64
}

// Snapshot returns the current counters with averages computed.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Uptime:           time.Since(c.StartTime),
		EventsWritten:    atomic.LoadInt64(&c.EventsWritten),
		EventWriteMax:    time.Duration(c.EventWriteLatMax),
		EventWriteErrors: atomic.LoadInt64(&c.EventWriteErrors),
		Settlements:      atomic.LoadInt64(&c.Settlements),
		SettleMax:        time.Duration(c.SettleLatMax),
		SettlementErrors: atomic.LoadInt64(&c.SettlementErrors),
	}
	if s.EventsWritten > 0 {
		s.EventWriteAvg = time.Duration(atomic.LoadInt64(&c.EventWriteLatSum) / s.EventsWritten)
	}
	if s.Settlements > 0 {
		s.SettleAvg = time.Duration(atomic.LoadInt64(&c.SettleLatSum) / s.Settlements)
	}
	return s
}

// LogArgs flattens the snapshot into slog key/value pairs.
func (s Snapshot) LogArgs() []any {
	return []any{
		"uptime", s.Uptime.Round(time.Second),
		"events_written", s.EventsWritten,
		"event_write_avg", s.EventWriteAvg,
		"event_write_max", s.EventWriteMax,
		"event_write_errors", s.EventWriteErrors,
		"settlements", s.Settlements,
		"settle_avg", s.SettleAvg,
		"settle_max", s.SettleMax,
		"settlement_errors", s.SettlementErrors,
	}
}
