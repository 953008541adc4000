package engine

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/MRamiBalles/apt100/internal/domain/rules"
	"github.com/MRamiBalles/apt100/internal/domain/tower"
	"github.com/MRamiBalles/apt100/internal/events"
	"github.com/MRamiBalles/apt100/internal/render"
)

// errDeclined ends the session when the player does not start a year.
var errDeclined = errors.New("player declined to start")

// Session carries capital from one year to the next.
type Session struct {
	ID      string
	Capital int
	Year    int // number of years started
}

// NewSession opens a session with the starting capital.
func NewSession(startingCapital int) *Session {
	return &Session{ID: uuid.NewString(), Capital: startingCapital}
}

// YearResult is the outcome of one played year.
type YearResult struct {
	Tower   string
	Start   int
	Final   int
	Verdict rules.Verdict
}

// Run plays years until the player stops. It returns console.ErrQuit when the
// player quits mid-game and nil on a normal goodbye.
func (e *Engine) Run(ctx context.Context, s *Session) error {
	e.logger = e.logger.With("session", s.ID)
	for {
		if s.Year > 0 {
			e.prompt.Printf("💼 You start this project with capital carried over: $%s\n", render.Money(s.Capital))
		}

		res, err := e.PlayYear(ctx, s)
		if errors.Is(err, errDeclined) {
			e.prompt.Println("\n👋 Thanks for playing 100APT — See you next time!")
			return nil
		}
		if err != nil {
			return err
		}
		e.closeYear(ctx, s, res)

		again, err := e.prompt.AskYes("\n🏢 Start a new apartment building? (y/n) ")
		if err != nil {
			return err
		}
		if !again {
			e.prompt.Println("\n👋 Thanks for playing 100APT — See you next time!")
			return nil
		}
		e.prompt.Println("\nPreparing your next building...")
		e.prompt.Println("🎉 Your new building awaits!")
	}
}

// PlayYear runs one year: start prompt, naming, the weekly loop and the
// settlements. Session capital is not touched; the caller applies the result.
func (e *Engine) PlayYear(ctx context.Context, s *Session) (YearResult, error) {
	if s.Year == 0 {
		render.Intro(e.prompt.Out(), e.rules.ActionsPerWeek, e.rules.PrefBonusPercent)
	}
	start, err := e.prompt.AskYes("\nStart game? (y/n) ")
	if err != nil {
		return YearResult{}, err
	}
	if !start {
		return YearResult{}, errDeclined
	}
	name, err := e.prompt.Text("Name your apartment tower: ")
	if err != nil {
		return YearResult{}, err
	}
	if name == "" {
		name = tower.DefaultName
	}

	s.Year++
	b := tower.NewBuilding(name, s.Capital, tower.Limits{
		MaxFloors:        e.rules.MaxFloors,
		PrefBonusPercent: e.rules.PrefBonusPercent,
	})
	y := &yearState{session: s, building: b}
	e.record(y, events.EventTypeYearStarted, events.ActorPlayer, events.YearPayload{Tower: b.Name, Capital: b.Capital})
	e.logger.Info("year started", "year", s.Year, "tower", b.Name, "capital", b.Capital)

	cal := NewCalendar(e.rules.TotalWeeks, e.rules.ActionsPerWeek, e.rules.MaxCancels)
	for {
		b.AdvanceTo(cal.Week())
		render.Tower(e.prompt.Out(), b, false)

		ff, err := e.runWeek(y, cal)
		if err != nil {
			return YearResult{}, err
		}
		if ff {
			e.fastForward(ctx, y)
			e.prompt.Println("\n⏩ Fast-forward activated! Skipped to year end.")
			break
		}

		st, err := e.settle(ctx, y)
		if err != nil {
			e.reportSettlementError(err)
		}
		view, err := e.prompt.AskYes("View weekly log? (y/n) ")
		if err != nil {
			return YearResult{}, err
		}
		if view {
			render.WeekReport(e.prompt.Out(), b, st)
		}

		if !cal.NextWeek() {
			break
		}
	}

	return YearResult{
		Tower:   b.Name,
		Start:   b.StartCapital,
		Final:   b.Capital,
		Verdict: rules.JudgeYear(b.StartCapital, b.Capital, e.rules.BankruptLimit),
	}, nil
}

// closeYear reports the year, applies the bankruptcy reset and prints the
// review block.
func (e *Engine) closeYear(ctx context.Context, s *Session, res YearResult) {
	y := &yearState{session: s}
	e.prompt.Printf("\n💰 Final Capital: %s\n", render.Money(res.Final))
	render.Verdict(e.prompt.Out(), res.Verdict, e.rules.StartingCapital)

	s.Capital = res.Final
	if res.Verdict == rules.VerdictBankrupt {
		s.Capital = e.rules.StartingCapital
		e.record(y, events.EventTypeBankruptcy, events.ActorSystem, events.YearPayload{Tower: res.Tower, Capital: res.Final})
	}
	e.record(y, events.EventTypeYearEnded, events.ActorSystem, events.YearPayload{
		Tower:   res.Tower,
		Capital: res.Final,
		Verdict: string(res.Verdict),
	})
	e.logger.Info("year ended", "year", s.Year, "capital", res.Final, "verdict", res.Verdict)

	render.Review(e.prompt.Out(), e.review(ctx, s))

	path := e.log.Path()
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	e.prompt.Printf("📁 Log saved at: %s\n", path)
}

// review merges the ledger aggregates with the event counts of the year.
func (e *Engine) review(ctx context.Context, s *Session) render.YearReview {
	counts := e.events.CountByType(s.Year)
	r := render.YearReview{
		Weeks:        counts[events.EventTypeWeekSettled],
		FloorsBuilt:  counts[events.EventTypeFloorBuilt],
		MoveIns:      counts[events.EventTypeTenantMovedIn],
		ForcedSpends: counts[events.EventTypeForcedSpend],
	}
	if e.ledger == nil {
		return r
	}

	yr, err := e.ledger.ReviewYear(ctx, s.ID, s.Year)
	if err != nil {
		e.logger.Warn("year review unavailable", "err", err)
		return r
	}
	r.Weeks = yr.Weeks
	r.TotalIncome = yr.TotalIncome
	r.TotalMaintenance = yr.TotalMaintenance
	if yr.BestWeek != nil {
		r.BestWeek, r.BestNet = yr.BestWeek.Week, yr.BestWeek.Net
	}
	if yr.WorstWeek != nil {
		r.WorstWeek, r.WorstNet = yr.WorstWeek.Week, yr.WorstWeek.Net
	}
	return r
}
