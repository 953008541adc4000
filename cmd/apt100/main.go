// Package main is the entry point of the 100APT tower simulator.
// It only handles flags and dependency injection.
// NO game logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MRamiBalles/apt100/internal/catalog"
	"github.com/MRamiBalles/apt100/internal/console"
	"github.com/MRamiBalles/apt100/internal/domain/apartment"
	"github.com/MRamiBalles/apt100/internal/engine"
	"github.com/MRamiBalles/apt100/internal/events"
	"github.com/MRamiBalles/apt100/internal/infra/storage"
	"github.com/MRamiBalles/apt100/internal/platform/config"
	"github.com/MRamiBalles/apt100/internal/platform/logger"
	"github.com/MRamiBalles/apt100/internal/platform/metrics"
)

// ledgerPersister translates domain events to ledger rows. Writes run under
// ctx, the context of the session.
type ledgerPersister struct {
	ctx     context.Context
	repo    storage.EventRepository
	metrics *metrics.Collector
}

func (a *ledgerPersister) Append(event events.GameEvent) (err error) {
	start := time.Now()
	defer func() { a.metrics.RecordEventWrite(time.Since(start), err) }()

	var payload map[string]any
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", event.Type, err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
	}
	return a.repo.Append(a.ctx, storage.LedgerEvent{
		ID:        event.ID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		Year:      event.Year,
		Week:      event.Week,
		Payload:   payload,
	})
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		cfgPath     = flag.String("config", "", "YAML rules file overlaid on the defaults")
		quick       = flag.Bool("quick", false, "short calendar for play-testing (4 weeks, 3 actions, 5 floors)")
		logPath     = flag.String("log", "", "append-only weekly log file (overrides log_path)")
		catalogPath = flag.String("catalog", "", "YAML catalog replacing the built-in one")
		ledgerDSN   = flag.String("ledger", storage.MemoryDSN, "SQLite ledger DSN or file path")
		seed        = flag.Uint64("seed", 0, "random seed for the offers (0 = time based)")
		logLevel    = flag.String("log-level", "warn", "diagnostic level: debug|info|warn|error")
		logFormat   = flag.String("log-format", "text", "diagnostic format: text|json")
		diagPath    = flag.String("diag", "", "write diagnostics to this file instead of stderr")
	)
	flag.Parse()

	var diag io.Writer = os.Stderr
	if *diagPath != "" {
		f, err := os.OpenFile(*diagPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "apt100:", err)
			return 1
		}
		defer f.Close()
		diag = f
	}
	appLogger := logger.NewLogger(logger.Config{Level: *logLevel, Format: *logFormat, Output: diag})

	rules := config.DefaultRules()
	if *quick {
		rules = config.QuickRules()
	}
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath, rules)
		if err != nil {
			appLogger.Error("failed to load rules", "path", *cfgPath, "err", err)
			fmt.Fprintln(os.Stderr, "apt100:", err)
			return 1
		}
		rules = loaded
	}
	if *logPath != "" {
		rules.LogPath = *logPath
	}

	var (
		cat *apartment.Catalog
		err error
	)
	if *catalogPath != "" {
		cat, err = catalog.Load(*catalogPath, rules.OptionsPerDraw)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		appLogger.Error("failed to load catalog", "err", err)
		fmt.Fprintln(os.Stderr, "apt100:", err)
		return 1
	}

	appLogger.Info("opening ledger", "dsn", *ledgerDSN)
	db, err := storage.InitSQLite(*ledgerDSN)
	if err != nil {
		appLogger.Error("failed to initialize ledger", "err", err)
		fmt.Fprintln(os.Stderr, "apt100:", err)
		return 1
	}
	defer db.Close()

	ctx := context.Background()
	stats := metrics.New()
	eventLog := events.NewEventLog(&ledgerPersister{ctx: ctx, repo: storage.NewSQLiteEventRepository(db), metrics: stats})

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	appLogger.Debug("sampler seeded", "seed", s)

	eng := engine.NewEngine(engine.Deps{
		Rules:   rules,
		Catalog: cat,
		Prompt:  console.New(os.Stdin, os.Stdout),
		Sampler: engine.NewRandSampler(s),
		Events:  eventLog,
		Log:     storage.NewTextLog(rules.LogPath),
		Ledger:  storage.NewSQLiteWeekRepository(db),
		Logger:  appLogger,
		Metrics: stats,
	})

	err = eng.Run(ctx, engine.NewSession(rules.StartingCapital))
	appLogger.Info("session stats", stats.Snapshot().LogArgs()...)
	switch {
	case errors.Is(err, console.ErrQuit):
		fmt.Println("\n👋 Exiting game early. See you next time!")
	case err != nil:
		appLogger.Error("game aborted", "err", err)
		fmt.Fprintln(os.Stderr, "apt100:", err)
		return 1
	}
	return 0
}
