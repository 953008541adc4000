package engine

// Flow names a selection sub-flow that keeps its own cancel streak.
type Flow string

const (
	FlowBuild  Flow = "build"
	FlowAssign Flow = "assign"
)

// Calendar tracks the week of the year and the action budget of that week.
// It knows nothing about the building, only time and spending.
type Calendar struct {
	totalWeeks int
	budget     int
	maxCancels int
	week       int
	spent      int
	cancels    map[Flow]int
}

// NewCalendar starts at week 1 with the full budget available.
func NewCalendar(totalWeeks, actionsPerWeek, maxCancels int) *Calendar {
	return &Calendar{
		totalWeeks: totalWeeks,
		budget:     actionsPerWeek,
		maxCancels: maxCancels,
		week:       1,
		cancels:    make(map[Flow]int),
	}
}

// Week returns the current 1-based week.
func (c *Calendar) Week() int {
	return c.week
}

// Budget returns the number of actions per week.
func (c *Calendar) Budget() int {
	return c.budget
}

// Action returns the 1-based index of the next action in the week.
func (c *Calendar) Action() int {
	return c.spent + 1
}

// Spend consumes one action.
func (c *Calendar) Spend() {
	c.spent++
}

// WeekDone reports whether the budget of the current week is used up.
func (c *Calendar) WeekDone() bool {
	return c.spent >= c.budget
}

// NextWeek moves to the following week with a fresh budget and no cancel
// streaks. It returns false once the year is over.
func (c *Calendar) NextWeek() bool {
	c.week++
	c.spent = 0
	c.ResetStreaks()
	return c.week <= c.totalWeeks
}

// Cancel records a cancel in flow and reports whether the streak reached the
// limit. A streak that reaches the limit is reset. Streaks count consecutive
// cancels only: any action that consumes budget ends them (see ResetStreaks).
func (c *Calendar) Cancel(flow Flow) (streak int, forced bool) {
	c.cancels[flow]++
	streak = c.cancels[flow]
	if streak >= c.maxCancels {
		c.cancels[flow] = 0
		return streak, true
	}
	return streak, false
}

// ResetStreak clears the cancel streak of flow after a successful pick.
func (c *Calendar) ResetStreak(flow Flow) {
	c.cancels[flow] = 0
}

// ResetStreaks clears the cancel streaks of every flow. It is called whenever
// an action consumes budget.
func (c *Calendar) ResetStreaks() {
	clear(c.cancels)
}

// MaxCancels returns the cancel limit per flow.
func (c *Calendar) MaxCancels() int {
	return c.maxCancels
}
