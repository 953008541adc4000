package engine

import (
	"errors"
	"fmt"

	"github.com/MRamiBalles/apt100/internal/console"
	"github.com/MRamiBalles/apt100/internal/domain/apartment"
	"github.com/MRamiBalles/apt100/internal/domain/tower"
	"github.com/MRamiBalles/apt100/internal/events"
	"github.com/MRamiBalles/apt100/internal/render"
)

// step is what a menu action did to the week.
type step int

const (
	stepNone        step = iota // back to the menu, nothing consumed
	stepSpent                   // one action consumed
	stepFastForward             // settle the rest of the year
)

// runWeek drives the action menu until the budget is spent. It reports
// whether the player asked to fast-forward.
func (e *Engine) runWeek(y *yearState, cal *Calendar) (bool, error) {
	for !cal.WeekDone() {
		render.Menu(e.prompt.Out(), cal.Action(), cal.Budget())
		choice, err := e.prompt.Command("> ")
		if err != nil {
			return false, err
		}

		var st step
		switch choice {
		case "1":
			st, err = e.build(y, cal)
		case "2":
			st, err = e.assign(y, cal)
		case "3":
			e.prompt.Println("⏭️ Turn skipped.")
			e.record(y, events.EventTypeTurnSkipped, events.ActorPlayer, nil)
			st = stepSpent
		case "4":
			st = stepFastForward
		default:
			e.prompt.Println("❌ Invalid input (no action spent).")
			continue
		}
		if err != nil {
			return false, err
		}

		switch st {
		case stepSpent:
			cal.Spend()
			cal.ResetStreaks()
		case stepFastForward:
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) forceSpend(y *yearState, flow Flow) step {
	e.record(y, events.EventTypeForcedSpend, events.ActorSystem, events.ForcedSpendPayload{Flow: string(flow)})
	return stepSpent
}

// build offers a random draw of apartment types and builds the pick on top.
func (e *Engine) build(y *yearState, cal *Calendar) (step, error) {
	b := y.building
	if b.IsFull() {
		return e.fullBuilding(b)
	}

	names := e.catalog.TypeNames()
	offer := make([]apartment.Type, 0, e.rules.OptionsPerDraw)
	labels := make([]string, 0, e.rules.OptionsPerDraw)
	for _, i := range e.sampler.Sample(len(names), e.rules.OptionsPerDraw) {
		t, ok := e.catalog.Lookup(names[i])
		if !ok {
			return stepNone, fmt.Errorf("apartment type %q missing from catalog", names[i])
		}
		offer = append(offer, t)
		labels = append(labels, fmt.Sprintf("%s (Cost %d, Upkeep %d)", t.Name, e.catalog.Cost(t.Name), e.catalog.Maintenance(t.Name)))
	}

	out, idx, err := e.choose(cal, FlowBuild, "Select apartment type to build:", labels)
	if err != nil {
		return stepNone, err
	}
	switch out {
	case OutcomeCancel:
		return stepNone, nil
	case OutcomeForceSpend:
		return e.forceSpend(y, FlowBuild), nil
	}

	t := offer[idx]
	f, err := b.AddFloor(t)
	switch {
	case errors.Is(err, tower.ErrInsufficientCapital):
		e.prompt.Printf("❌ Not enough capital. Need %d, have %d. (no action spent)\n", t.Cost, b.Capital)
		return stepNone, nil
	case errors.Is(err, tower.ErrCapacityReached):
		e.prompt.Println("❌ Cannot build more floors. (no action spent)")
		return stepNone, nil
	case err != nil:
		return stepNone, err
	}

	e.prompt.Printf("✅ Built Floor %d: %s | Cost %d | Capital %d\n", f.Number, t.Name, t.Cost, b.Capital)
	e.record(y, events.EventTypeFloorBuilt, events.ActorPlayer, events.FloorBuiltPayload{Floor: f.Number, Type: t.Name, Cost: t.Cost})
	return stepSpent, nil
}

// fullBuilding handles a build request on a building at its floor cap.
func (e *Engine) fullBuilding(b *tower.Building) (step, error) {
	e.prompt.Printf("🏢 Maximum floors reached (%d/%d).\n", b.FloorCount(), b.MaxFloors())
	vacant := b.Vacancies()
	if vacant == 0 {
		return e.offerYearEnd()
	}

	e.prompt.Printf("📌 There are still %d empty units.\n", vacant)
	keep, err := e.prompt.AskYes("Do you want to continue leasing this year? (y/n) ")
	if err != nil {
		return stepNone, err
	}
	if keep {
		e.prompt.Println("🔙 Continue finding tenants. (no action spent)")
		return stepNone, nil
	}
	return stepFastForward, nil
}

// offerYearEnd is shown once nothing is left to build or lease.
func (e *Engine) offerYearEnd() (step, error) {
	e.prompt.Println("🎉 Building is fully constructed AND fully occupied!")
	skip, err := e.prompt.AskYes("Skip to year end? (y/n) ")
	if err != nil {
		return stepNone, err
	}
	if skip {
		return stepFastForward, nil
	}
	e.prompt.Println("🔙 Returning to action selection... (no action spent)")
	return stepNone, nil
}

// assign offers a random draw of tenants and moves the pick into a vacant floor.
func (e *Engine) assign(y *yearState, cal *Calendar) (step, error) {
	b := y.building
	switch {
	case b.IsFull() && b.FullyLeased():
		return e.offerYearEnd()
	case b.FloorCount() == 0:
		e.prompt.Println("❌ No floors yet. Build first. (no action spent)")
		return stepNone, nil
	case b.FullyLeased():
		e.prompt.Println("❌ No available apartments for tenants right now. (no action spent)")
		return stepNone, nil
	}

	tenants := e.catalog.Tenants()
	offer := make([]apartment.TenantArchetype, 0, e.rules.OptionsPerDraw)
	labels := make([]string, 0, e.rules.OptionsPerDraw)
	for _, i := range e.sampler.Sample(len(tenants), e.rules.OptionsPerDraw) {
		a := tenants[i]
		pref := "None"
		if a.HasPreference() {
			pref = a.Preference
		}
		offer = append(offer, a)
		labels = append(labels, fmt.Sprintf("%s (Pref %s)", a.Name, pref))
	}

	out, idx, err := e.choose(cal, FlowAssign, "Choose tenant:", labels)
	if err != nil {
		return stepNone, err
	}
	switch out {
	case OutcomeCancel:
		return stepNone, nil
	case OutcomeForceSpend:
		return e.forceSpend(y, FlowAssign), nil
	}

	tenant := offer[idx]
	e.prompt.Println("\nCurrent Building:")
	render.Tower(e.prompt.Out(), b, true)

	n := b.FloorCount()
	for {
		fl, err := e.prompt.ReadInt(fmt.Sprintf("Select floor (1-%d): ", n), 1, n)
		if errors.Is(err, console.ErrInvalidInput) {
			continue
		}
		if err != nil {
			return stepNone, err
		}

		if err := b.AssignTenant(tenant, fl); err != nil {
			if errors.Is(err, tower.ErrFloorOccupied) {
				e.prompt.Println("❌ Floor already occupied. (no action spent)")
				return stepNone, nil
			}
			return stepNone, err
		}

		e.prompt.Printf("✅ %s moved into Floor %d\n", tenant.Name, fl)
		if f, ok := b.Floor(fl); ok && tenant.Prefers(f.Type) {
			e.prompt.Printf("💡 %s loves the %s! +%d%% rent\n", tenant.Name, f.Type, e.rules.PrefBonusPercent)
		}
		e.record(y, events.EventTypeTenantMovedIn, events.ActorPlayer, events.TenantMovedInPayload{Floor: fl, Tenant: tenant.Name})
		return stepSpent, nil
	}
}
