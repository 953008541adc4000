package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/apt100/internal/console"
	"github.com/MRamiBalles/apt100/internal/domain/apartment"
	"github.com/MRamiBalles/apt100/internal/domain/rules"
	"github.com/MRamiBalles/apt100/internal/events"
	"github.com/MRamiBalles/apt100/internal/infra/storage"
	"github.com/MRamiBalles/apt100/internal/platform/config"
)

// firstN always offers the first k catalog entries.
type firstN struct{}

func (firstN) Sample(n, k int) []int {
	out := make([]int, 0, k)
	for i := 0; i < k && i < n; i++ {
		out = append(out, i)
	}
	return out
}

type memLog struct {
	entries []storage.WeekEntry
	err     error
	panic   string
}

func (m *memLog) AppendWeek(e storage.WeekEntry) error {
	if m.panic != "" {
		panic(m.panic)
	}
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memLog) Path() string { return "game_log.txt" }

func apt(name string, cost int) apartment.Type {
	return apartment.Type{Name: name, Cost: cost, BaseMaintenance: rules.BaseMaintenance(cost)}
}

func testCatalog() *apartment.Catalog {
	return apartment.NewCatalog(
		[]apartment.Type{apt("Desert Suite", 90), apt("Ocean Chamber", 120), apt("Forest Cabin", 80)},
		[]apartment.TenantArchetype{
			{Name: "Djinn", Preference: "Desert Suite"},
			{Name: "Wanderer"},
			{Name: "Mermaid", Preference: "Ocean Chamber"},
		},
	)
}

func testRules(weeks, actions int) *config.Rules {
	r := config.DefaultRules()
	r.TotalWeeks = weeks
	r.ActionsPerWeek = actions
	r.MaxFloors = 5
	return r
}

type harness struct {
	engine  *Engine
	session *Session
	log     *memLog
	events  *events.EventLog
	out     *bytes.Buffer
}

func newHarness(r *config.Rules, input string) *harness {
	h := &harness{
		log:    &memLog{},
		events: events.NewEventLog(nil),
		out:    &bytes.Buffer{},
	}
	h.engine = NewEngine(Deps{
		Rules:   r,
		Catalog: testCatalog(),
		Prompt:  console.New(strings.NewReader(input), h.out),
		Sampler: firstN{},
		Events:  h.events,
		Log:     h.log,
	})
	h.session = NewSession(r.StartingCapital)
	return h
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	require.NoError(t, h.engine.Run(context.Background(), h.session))
}

func lines(in ...string) string {
	return strings.Join(in, "\n") + "\n"
}

func TestBuildFloorAndSettle(t *testing.T) {
	h := newHarness(testRules(1, 1), lines("y", "Sky High", "1", "1", "n", "n"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "✅ Built Floor 1: Desert Suite | Cost 90 | Capital 410")
	require.Len(t, h.log.entries, 1)

	week := h.log.entries[0]
	require.NotNil(t, week.Header)
	assert.Equal(t, "Sky High", week.Header.Tower)
	assert.Equal(t, 500, week.Header.StartCapital)
	assert.Equal(t, []storage.BuildLine{{Floor: 1, Type: "Desert Suite", Cost: 90}}, week.Builds)
	assert.Equal(t, 0, week.Income)
	assert.Equal(t, 32, week.Maintenance)
	assert.Equal(t, 378, week.Capital)

	assert.Equal(t, 378, h.session.Capital)
	assert.Contains(t, out, "Final Capital: 378")
	assert.Contains(t, out, "You survived the year")
	assert.Contains(t, out, "Log saved at:")
}

func TestBlankNameUsesDefault(t *testing.T) {
	h := newHarness(testRules(1, 1), lines("y", "", "3", "n", "n"))
	h.run(t)
	require.Len(t, h.log.entries, 1)
	assert.Equal(t, "Unnamed Tower", h.log.entries[0].Header.Tower)
}

func TestPreferredTenantEarnsBonus(t *testing.T) {
	h := newHarness(testRules(1, 2), lines("y", "T", "1", "1", "2", "1", "1", "y", "n"))
	h.run(t)

	require.Len(t, h.log.entries, 1)
	week := h.log.entries[0]
	assert.Equal(t, 59, week.Income)
	assert.Equal(t, 32, week.Maintenance)
	assert.Equal(t, 27, week.Net)
	assert.Equal(t, 437, week.Capital)
	assert.Equal(t, []storage.MoveInLine{{Floor: 1, Tenant: "Djinn"}}, week.MoveIns)

	out := h.out.String()
	assert.Contains(t, out, "Djinn loves the Desert Suite! +10% rent")
	assert.Contains(t, out, "Djinn -> Floor 1")
}

func TestThreeCancelsForceSpend(t *testing.T) {
	h := newHarness(testRules(1, 1), lines("y", "T", "1", "0", "1", "0", "1", "0", "n", "n"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "Cancelled (1/3)")
	assert.Contains(t, out, "Cancelled (2/3)")
	assert.Contains(t, out, "Too many cancellations")
	assert.Equal(t, 1, h.events.CountByType(1)[events.EventTypeForcedSpend])

	// No floors: only ground upkeep was paid.
	assert.Equal(t, 480, h.session.Capital)
}

func TestSpentActionBreaksCancelStreak(t *testing.T) {
	input := lines("y", "T",
		"1", "0", "1", "0",
		"3",
		"1", "0",
		"3", "3",
		"n", "n",
	)
	h := newHarness(testRules(1, 3), input)
	h.run(t)

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "Cancelled (1/3)"))
	assert.Equal(t, 1, strings.Count(out, "Cancelled (2/3)"))
	assert.NotContains(t, out, "Too many cancellations")
	assert.Equal(t, 0, h.events.CountByType(1)[events.EventTypeForcedSpend])
	assert.Equal(t, 3, h.events.CountByType(1)[events.EventTypeTurnSkipped])
}

func TestInvalidMenuChoiceSpendsNothing(t *testing.T) {
	h := newHarness(testRules(1, 1), lines("y", "T", "9", "hello", "3", "n", "n"))
	h.run(t)
	assert.Equal(t, 2, strings.Count(h.out.String(), "Invalid input (no action spent)"))
	assert.Equal(t, 1, h.events.CountByType(1)[events.EventTypeTurnSkipped])
}

func TestAssignRejections(t *testing.T) {
	input := lines(
		"y", "T",
		// no floors yet
		"2",
		// build Desert Suite and Forest Cabin
		"1", "1",
		"1", "3",
		// Djinn to floor 1
		"2", "1", "1",
		// Wanderer: bad input, then the occupied floor
		"2", "2", "abc", "9", "1",
		// Wanderer to floor 2
		"2", "2", "2",
		// fully leased, then skip
		"2",
		"3",
		"n", "n",
	)
	h := newHarness(testRules(1, 5), input)
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "No floors yet")
	assert.Contains(t, out, "Please enter a valid number.")
	assert.Contains(t, out, "valid number from 1 to 2")
	assert.Contains(t, out, "Floor already occupied")
	assert.Contains(t, out, "No available apartments for tenants right now")

	require.Len(t, h.log.entries, 1)
	assert.Equal(t, []storage.MoveInLine{{Floor: 1, Tenant: "Djinn"}, {Floor: 2, Tenant: "Wanderer"}}, h.log.entries[0].MoveIns)
	assert.Equal(t, 1, h.events.CountByType(1)[events.EventTypeTurnSkipped])
}

func TestNotEnoughCapital(t *testing.T) {
	r := testRules(1, 1)
	r.StartingCapital = 100
	h := newHarness(r, lines("y", "T", "1", "2", "3", "n", "n"))
	h.run(t)

	assert.Contains(t, h.out.String(), "Not enough capital. Need 120, have 100.")
	assert.Equal(t, 80, h.session.Capital)
}

func TestFastForwardSettlesRemainingWeeks(t *testing.T) {
	h := newHarness(testRules(4, 7), lines("y", "T", "1", "1", "4", "n"))
	h.run(t)

	require.Len(t, h.log.entries, 4)
	assert.NotNil(t, h.log.entries[0].Header)
	for i, e := range h.log.entries[1:] {
		assert.Nil(t, e.Header)
		assert.Equal(t, i+2, e.Week)
	}
	assert.Equal(t, 410-4*32, h.session.Capital)
	assert.Contains(t, h.out.String(), "Fast-forward activated")
	assert.NotContains(t, h.out.String(), "View weekly log")
}

func TestFullBuildingGating(t *testing.T) {
	r := testRules(1, 3)
	r.MaxFloors = 1
	h := newHarness(r, lines("y", "T", "1", "1", "1", "y", "1", "n", "n"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "Maximum floors reached (1/1)")
	assert.Contains(t, out, "There are still 1 empty units")
	require.Len(t, h.log.entries, 1)
}

func TestStopLeasingAtCapacityFastForwards(t *testing.T) {
	r := testRules(3, 3)
	r.MaxFloors = 1
	h := newHarness(r, lines("y", "T", "1", "1", "1", "n", "n"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "There are still 1 empty units")
	assert.Contains(t, out, "Fast-forward activated")
	assert.NotContains(t, out, "Event 3/3")
	assert.NotContains(t, out, "View weekly log")
	require.Len(t, h.log.entries, 3)
	assert.Equal(t, 3, h.log.entries[2].Week)
	assert.Equal(t, 410-3*32, h.session.Capital)
	assert.Equal(t, 1, h.events.CountByType(1)[events.EventTypeFastForward])
}

func TestFullyLeasedOffersYearEnd(t *testing.T) {
	r := testRules(2, 3)
	r.MaxFloors = 1
	h := newHarness(r, lines("y", "T", "1", "1", "2", "1", "1", "2", "y", "n"))
	h.run(t)

	assert.Contains(t, h.out.String(), "fully constructed AND fully occupied")
	assert.Len(t, h.log.entries, 2)
}

func TestDecliningYearEndKeepsBudget(t *testing.T) {
	r := testRules(1, 3)
	r.MaxFloors = 1
	input := lines("y", "T",
		"1", "1",
		"2", "1", "1",
		// fully leased: decline from both menu entries
		"2", "n",
		"1", "n",
		"3",
		"n", "n",
	)
	h := newHarness(r, input)
	h.run(t)

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "fully constructed AND fully occupied"))
	assert.Equal(t, 2, strings.Count(out, "Returning to action selection... (no action spent)"))
	assert.Equal(t, 3, strings.Count(out, "Event 3/3"))
	assert.NotContains(t, out, "Fast-forward activated")
	require.Len(t, h.log.entries, 1)
	assert.Equal(t, 1, h.events.CountByType(1)[events.EventTypeTurnSkipped])
	assert.Equal(t, 0, h.events.CountByType(1)[events.EventTypeFastForward])
}

func TestBankruptcyResetsCapital(t *testing.T) {
	h := newHarness(testRules(52, 7), lines("y", "T", "1", "2", "4", "y", "n"))
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "Bankruptcy detected! Resetting capital to $500")
	assert.Contains(t, out, "capital carried over: $500")
	assert.Equal(t, 500, h.session.Capital)
	assert.Equal(t, 1, h.session.Year)
	assert.Equal(t, 1, h.events.CountByType(1)[events.EventTypeBankruptcy])
}

func TestCapitalCarriesIntoNextYear(t *testing.T) {
	h := newHarness(testRules(1, 1), lines("y", "A", "3", "n", "y", "y", "B", "3", "n", "n"))
	h.run(t)

	assert.Equal(t, 2, h.session.Year)
	assert.Equal(t, 460, h.session.Capital)
	require.Len(t, h.log.entries, 2)
	assert.Equal(t, 480, h.log.entries[1].Header.StartCapital)
	assert.Equal(t, 1, strings.Count(h.out.String(), "Welcome to 100APT"))
}

func TestQuitUnwinds(t *testing.T) {
	for _, input := range []string{lines("y", "T", "q"), lines("y", "T", "1", "quit"), ""} {
		h := newHarness(testRules(1, 1), input)
		err := h.engine.Run(context.Background(), h.session)
		assert.ErrorIs(t, err, console.ErrQuit, "%q", input)
	}
}

func TestDeclineStart(t *testing.T) {
	h := newHarness(testRules(1, 1), lines("n"))
	h.run(t)
	assert.Contains(t, h.out.String(), "Thanks for playing")
	assert.Equal(t, 0, h.session.Year)
}

func TestSettlementErrorDoesNotStopPlay(t *testing.T) {
	h := newHarness(testRules(2, 1), lines("y", "T", "3", "n", "3", "n", "n"))
	h.log.err = errors.New("disk full")
	h.run(t)

	assert.Equal(t, 2, strings.Count(h.out.String(), "Settlement error"))
	assert.Equal(t, 460, h.session.Capital)

	stats := h.engine.metrics.Snapshot()
	assert.EqualValues(t, 2, stats.Settlements)
	assert.EqualValues(t, 2, stats.SettlementErrors)
}

func TestSettlementPanicIsReported(t *testing.T) {
	h := newHarness(testRules(2, 1), lines("y", "T", "3", "n", "3", "n", "n"))
	h.log.panic = "log rotated"
	h.run(t)

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "Settlement error"))
	assert.Contains(t, out, "panic: log rotated")
	assert.Equal(t, 460, h.session.Capital)
	assert.EqualValues(t, 2, h.engine.metrics.Snapshot().SettlementErrors)
}

func TestYearReviewFromLedger(t *testing.T) {
	db, err := storage.InitSQLite(storage.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := newHarness(testRules(2, 2), lines("y", "T", "1", "1", "2", "1", "1", "n", "3", "3", "n", "n"))
	h.engine.ledger = storage.NewSQLiteWeekRepository(db)
	h.run(t)

	out := h.out.String()
	assert.Contains(t, out, "Weeks settled: 2")
	assert.Contains(t, out, "Total income: 118 | Total maintenance: 64")
	assert.Contains(t, out, "Floors built: 1 | Move-ins: 1 | Forced spends: 0")
}

func TestCalendarCancelStreaksPerFlow(t *testing.T) {
	cal := NewCalendar(2, 7, 3)

	_, forced := cal.Cancel(FlowBuild)
	assert.False(t, forced)
	_, forced = cal.Cancel(FlowBuild)
	assert.False(t, forced)
	streak, forced := cal.Cancel(FlowAssign)
	assert.False(t, forced)
	assert.Equal(t, 1, streak)

	streak, forced = cal.Cancel(FlowBuild)
	assert.True(t, forced)
	assert.Equal(t, 3, streak)

	cal.ResetStreak(FlowAssign)
	streak, _ = cal.Cancel(FlowAssign)
	assert.Equal(t, 1, streak)

	cal.Cancel(FlowBuild)
	cal.ResetStreaks()
	streak, _ = cal.Cancel(FlowBuild)
	assert.Equal(t, 1, streak)
	streak, _ = cal.Cancel(FlowAssign)
	assert.Equal(t, 1, streak)

	assert.True(t, cal.NextWeek())
	streak, _ = cal.Cancel(FlowAssign)
	assert.Equal(t, 1, streak)
	assert.False(t, cal.NextWeek())
}

func TestRandSamplerDistinct(t *testing.T) {
	s := NewRandSampler(7)
	for i := 0; i < 50; i++ {
		got := s.Sample(20, 3)
		require.Len(t, got, 3)
		seen := map[int]bool{}
		for _, v := range got {
			assert.True(t, v >= 0 && v < 20)
			assert.False(t, seen[v])
			seen[v] = true
		}
	}
	assert.Len(t, s.Sample(2, 3), 2)
	assert.Equal(t, NewRandSampler(42).Sample(20, 3), NewRandSampler(42).Sample(20, 3))
}
