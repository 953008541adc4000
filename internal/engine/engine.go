package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/apt100/internal/console"
	"github.com/MRamiBalles/apt100/internal/domain/apartment"
	"github.com/MRamiBalles/apt100/internal/domain/rules"
	"github.com/MRamiBalles/apt100/internal/domain/tower"
	"github.com/MRamiBalles/apt100/internal/events"
	"github.com/MRamiBalles/apt100/internal/infra/storage"
	"github.com/MRamiBalles/apt100/internal/platform/config"
	"github.com/MRamiBalles/apt100/internal/platform/logger"
	"github.com/MRamiBalles/apt100/internal/platform/metrics"
)

// WeekLog is the append-only human-readable log sink.
type WeekLog interface {
	AppendWeek(entry storage.WeekEntry) error
	Path() string
}

// Ledger stores settled weeks and aggregates them at year end.
type Ledger interface {
	RecordWeek(ctx context.Context, rec storage.WeekRecord) error
	ReviewYear(ctx context.Context, sessionID string, year int) (*storage.YearReview, error)
}

// Deps are the collaborators of the engine. Ledger and Metrics are optional.
type Deps struct {
	Rules   *config.Rules
	Catalog *apartment.Catalog
	Prompt  *console.Prompter
	Sampler Sampler
	Events  *events.EventLog
	Log     WeekLog
	Ledger  Ledger
	Logger  *logger.Logger
	Metrics *metrics.Collector
	Now     func() time.Time
}

// Engine is the central orchestrator of a game session.
type Engine struct {
	rules   *config.Rules
	catalog *apartment.Catalog
	prompt  *console.Prompter
	sampler Sampler
	events  *events.EventLog
	log     WeekLog
	ledger  Ledger
	logger  *logger.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

// NewEngine wires the game systems together.
func NewEngine(d Deps) *Engine {
	e := &Engine{
		rules:   d.Rules,
		catalog: d.Catalog,
		prompt:  d.Prompt,
		sampler: d.Sampler,
		events:  d.Events,
		log:     d.Log,
		ledger:  d.Ledger,
		logger:  d.Logger,
		metrics: d.Metrics,
		now:     d.Now,
	}
	if e.events == nil {
		e.events = events.NewEventLog(nil)
	}
	if e.logger == nil {
		e.logger = logger.Nop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.metrics == nil {
		e.metrics = metrics.New()
	}
	return e
}

// yearState is the mutable context of the year being played.
type yearState struct {
	session  *Session
	building *tower.Building
}

// record appends a domain event. Persistence failures are logged, never fatal.
func (e *Engine) record(y *yearState, typ events.EventType, actor string, payload any) {
	week := 0
	if y.building != nil {
		week = y.building.Week
	}
	err := e.events.Append(events.GameEvent{
		SessionID: y.session.ID,
		Timestamp: e.now(),
		Type:      typ,
		ActorID:   actor,
		Year:      y.session.Year,
		Week:      week,
		Payload:   payload,
	})
	if err != nil {
		e.logger.Warn("event ledger append failed", "type", typ, "err", err)
	}
	e.logger.Event(string(typ), actor, fmt.Sprintf("year=%d week=%d", y.session.Year, week))
}

// settle closes the current week: capital is updated first, then the week is
// written to the text log and the ledger. Write failures are returned joined;
// the settlement itself always stands. A panic in a sink is returned as an
// error so the year keeps going.
func (e *Engine) settle(ctx context.Context, y *yearState) (s rules.Settlement, err error) {
	start := time.Now()
	defer func() { e.metrics.RecordSettlement(time.Since(start), err) }()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(err, fmt.Errorf("settle week %d: panic: %v", y.building.Week, r))
		}
	}()

	b := y.building
	s = b.SettleWeek()
	e.record(y, events.EventTypeWeekSettled, events.ActorSystem, s)

	var errs []error
	if err := e.log.AppendWeek(e.weekEntry(b, s)); err != nil {
		errs = append(errs, fmt.Errorf("save week %d log: %w", s.Week, err))
	}
	if e.ledger != nil {
		rec := storage.WeekRecord{
			SessionID:   y.session.ID,
			Year:        y.session.Year,
			Week:        s.Week,
			Income:      s.Income,
			Maintenance: s.Maintenance,
			Net:         s.Net,
			Capital:     s.Capital,
		}
		if err := e.ledger.RecordWeek(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("record week %d: %w", s.Week, err))
		}
	}
	return s, errors.Join(errs...)
}

func (e *Engine) weekEntry(b *tower.Building, s rules.Settlement) storage.WeekEntry {
	entry := storage.WeekEntry{
		Week:        s.Week,
		Income:      s.Income,
		Maintenance: s.Maintenance,
		Net:         s.Net,
		Capital:     s.Capital,
	}
	if s.Week == 1 {
		entry.Header = &storage.SessionHeader{
			Tower:        b.Name,
			StartCapital: b.StartCapital,
			Date:         e.now(),
		}
	}
	for _, r := range b.BuildsIn(s.Week) {
		entry.Builds = append(entry.Builds, storage.BuildLine{Floor: r.Floor, Type: r.Type, Cost: r.Cost})
	}
	for _, r := range b.MoveInsIn(s.Week) {
		entry.MoveIns = append(entry.MoveIns, storage.MoveInLine{Floor: r.Floor, Tenant: r.Tenant})
	}
	return entry
}

// fastForward settles every week from the current one to the end of the year
// with the state as it is.
func (e *Engine) fastForward(ctx context.Context, y *yearState) {
	e.record(y, events.EventTypeFastForward, events.ActorPlayer, nil)
	for wk := y.building.Week; wk <= e.rules.TotalWeeks; wk++ {
		y.building.AdvanceTo(wk)
		if _, err := e.settle(ctx, y); err != nil {
			e.reportSettlementError(err)
		}
	}
}

func (e *Engine) reportSettlementError(err error) {
	e.prompt.Println("⚠️ Settlement error:", err)
	e.logger.Error("settlement failed", "err", err)
}
