// Package render draws the tower and the weekly reports on the console.
// It holds no game logic; the engine hands it plain state to print.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/MRamiBalles/apt100/internal/domain/rules"
	"github.com/MRamiBalles/apt100/internal/domain/tower"
)

const (
	towerWidth  = 22
	towerIndent = 4
)

// Money formats an amount with thousands separators.
func Money(v int) string {
	return humanize.Comma(int64(v))
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

// Tower draws the building top floor first. quiet drops the week banner and totals.
func Tower(w io.Writer, b *tower.Building, quiet bool) {
	ind := strings.Repeat(" ", towerIndent)
	inner := towerWidth - 2
	block := func(a, c string) {
		fmt.Fprintf(w, "%s|%s|\n", ind, center(a, inner))
		fmt.Fprintf(w, "%s|%s|\n", ind, center(c, inner))
	}

	if !quiet {
		fmt.Fprintf(w, "\n========== Week %d ==========\n", b.Week)
	}
	fmt.Fprintf(w, "%s┌%s┐\n", ind, strings.Repeat("─", inner))

	floors := b.Floors()
	for i := len(floors) - 1; i >= 0; i-- {
		f := floors[i]
		name := "---"
		if f.Tenant != nil {
			name = f.Tenant.Name
		}
		block(f.Type, "Tenant: "+name)
		fmt.Fprintf(w, "%s├%s┤\n", ind, strings.Repeat("─", inner))
	}

	block("GROUND FLOOR", "<< "+b.Name+" >>")
	fmt.Fprintf(w, "%s%s\n", ind, strings.Repeat("▒", towerWidth))

	if !quiet {
		total := b.FloorCount()
		fmt.Fprintf(w, "\n%s🏢 Units: %d  |  Empty: %d/%d\n", ind, total, b.Vacancies(), total)
		fmt.Fprintf(w, "%s💰 Capital: %s\n\n", ind, Money(b.Capital))
	}
}

// WeekReport prints the build, move-in and money summary of a settled week.
func WeekReport(w io.Writer, b *tower.Building, s rules.Settlement) {
	fmt.Fprintln(w, "\n[Weekly Build Log]")
	builds := b.BuildsIn(s.Week)
	for _, r := range builds {
		fmt.Fprintf(w, " Built Floor %d %s (Cost %d)\n", r.Floor, r.Type, r.Cost)
	}
	if len(builds) == 0 {
		fmt.Fprintln(w, " None")
	}

	fmt.Fprintln(w, "\n[Move-in Log]")
	moveIns := b.MoveInsIn(s.Week)
	for _, r := range moveIns {
		fmt.Fprintf(w, " %s -> Floor %d\n", r.Tenant, r.Floor)
	}
	if len(moveIns) == 0 {
		fmt.Fprintln(w, " None")
	}

	fmt.Fprintln(w, "\n[Weekly Summary]")
	fmt.Fprintf(w, "Income %d | Maintenance %d | Net %d | Capital %d\n", s.Income, s.Maintenance, s.Net, s.Capital)
}

// Intro welcomes the player on the first year of a session.
func Intro(w io.Writer, actionsPerWeek, bonusPercent int) {
	fmt.Fprintf(w, `
Welcome to 100APT — Apartment Builder Simulator!

Goal: Build floors, assign tenants, and manage finances.
Each week you have %d actions to grow your building and maximize profit.

💡 Tip: Assigning a tenant to their preferred apartment theme grants a +%d%% rent bonus.

Good luck — your real-estate journey starts now! 🏙️
`, actionsPerWeek, bonusPercent)
}

// Menu prints the weekly action choices.
func Menu(w io.Writer, action, budget int) {
	fmt.Fprintf(w, "\n📍 Event %d/%d\n", action, budget)
	fmt.Fprintln(w, "Choose an action (1/2/3/4):")
	fmt.Fprintln(w, " 1) Build floor")
	fmt.Fprintln(w, " 2) Assign tenant")
	fmt.Fprintln(w, " 3) Skip turn")
	fmt.Fprintln(w, " 4) Fast-forward to end of year")
}

// Verdict prints the end-of-year assessment.
func Verdict(w io.Writer, v rules.Verdict, startingCapital int) {
	switch v {
	case rules.VerdictBankrupt:
		fmt.Fprintf(w, "\n💥 Bankruptcy detected! Resetting capital to $%d\n", startingCapital)
		fmt.Fprintln(w, "📉 Real estate is tough... but every tycoon starts somewhere. Try again!")
		return
	case rules.VerdictSurvived:
		fmt.Fprintln(w, "\n🎉 Year complete!")
		fmt.Fprintln(w, "🏙️ You survived the year — not easy in real estate! Keep improving.")
	case rules.VerdictBrokeEven:
		fmt.Fprintln(w, "\n🎉 Year complete!")
		fmt.Fprintln(w, "⚖️ Broke even — safe play! Maybe take some risks next time.")
	case rules.VerdictThrived:
		fmt.Fprintln(w, "\n🎉 Year complete!")
		fmt.Fprintln(w, "💼 Great job, developer! Your building thrived and tenants flourished!")
	}
}

// YearReview summarizes the year from the ledger and the event counts.
type YearReview struct {
	Weeks            int
	TotalIncome      int
	TotalMaintenance int
	BestWeek         int
	BestNet          int
	WorstWeek        int
	WorstNet         int
	FloorsBuilt      int
	MoveIns          int
	ForcedSpends     int
}

// Review prints the year-in-review block.
func Review(w io.Writer, r YearReview) {
	fmt.Fprintln(w, "\n📊 Year in review")
	fmt.Fprintf(w, "   Weeks settled: %d\n", r.Weeks)
	fmt.Fprintf(w, "   Total income: %s | Total maintenance: %s\n", Money(r.TotalIncome), Money(r.TotalMaintenance))
	if r.Weeks > 0 {
		fmt.Fprintf(w, "   Best week: %d (net %s) | Worst week: %d (net %s)\n", r.BestWeek, Money(r.BestNet), r.WorstWeek, Money(r.WorstNet))
	}
	fmt.Fprintf(w, "   Floors built: %d | Move-ins: %d | Forced spends: %d\n", r.FloorsBuilt, r.MoveIns, r.ForcedSpends)
}
