// Package tower defines the mutable ledger of one apartment building.
// This package is PURE and must NOT import any infrastructure packages.
package tower

import (
	"errors"

	"github.com/MRamiBalles/apt100/internal/domain/apartment"
	"github.com/MRamiBalles/apt100/internal/domain/rules"
)

var (
	ErrCapacityReached     = errors.New("cannot build more floors")
	ErrInsufficientCapital = errors.New("not enough capital")
	ErrInvalidFloor        = errors.New("invalid floor")
	ErrFloorOccupied       = errors.New("floor already occupied")
)

// DefaultName is used when the player leaves the tower unnamed.
const DefaultName = "Unnamed Tower"

// Tenant is the archetype that moved into a floor. Preference matching goes
// through apartment.TenantArchetype.Prefers.
type Tenant = apartment.TenantArchetype

// Floor is one constructed rentable unit.
type Floor struct {
	Number          int     `json:"number"` // 1-based, in construction order
	Type            string  `json:"type"`
	BaseRent        int     `json:"base_rent"`
	BaseMaintenance int     `json:"base_maintenance"`
	Tenant          *Tenant `json:"tenant,omitempty"`
}

// Occupied reports whether a tenant lives on the floor.
func (f *Floor) Occupied() bool {
	return f.Tenant != nil
}

// Rent is what the floor earns in a week.
func (f *Floor) Rent(bonusPercent int) int {
	if f.Tenant == nil {
		return 0
	}
	return rules.Rent(f.BaseRent, f.Tenant.Prefers(f.Type), bonusPercent)
}

// BuildRecord is logged when a floor is constructed.
type BuildRecord struct {
	Floor int    `json:"floor"`
	Type  string `json:"type"`
	Cost  int    `json:"cost"`
}

// MoveInRecord is logged when a tenant moves in.
type MoveInRecord struct {
	Floor  int    `json:"floor"`
	Tenant string `json:"tenant"`
}

// Limits are the rule values a building enforces on itself.
type Limits struct {
	MaxFloors        int
	PrefBonusPercent int
}

// Building is the state of the tower during one year.
type Building struct {
	Name         string
	Capital      int
	StartCapital int
	Week         int

	limits  Limits
	floors  []*Floor
	builds  map[int][]BuildRecord
	moveIns map[int][]MoveInRecord
}

// NewBuilding creates an empty tower at week 1.
func NewBuilding(name string, startCapital int, limits Limits) *Building {
	if name == "" {
		name = DefaultName
	}
	return &Building{
		Name:         name,
		Capital:      startCapital,
		StartCapital: startCapital,
		Week:         1,
		limits:       limits,
		floors:       make([]*Floor, 0),
		builds:       make(map[int][]BuildRecord),
		moveIns:      make(map[int][]MoveInRecord),
	}
}

// FloorCount returns the number of constructed floors.
func (b *Building) FloorCount() int {
	return len(b.floors)
}

// MaxFloors returns the construction cap.
func (b *Building) MaxFloors() int {
	return b.limits.MaxFloors
}

// Floors returns the floors bottom-up. Callers must not mutate them.
func (b *Building) Floors() []*Floor {
	return b.floors
}

// Floor returns floor n (1-based).
func (b *Building) Floor(n int) (*Floor, bool) {
	if n < 1 || n > len(b.floors) {
		return nil, false
	}
	return b.floors[n-1], true
}

// Vacancies counts floors without a tenant.
func (b *Building) Vacancies() int {
	empty := 0
	for _, f := range b.floors {
		if !f.Occupied() {
			empty++
		}
	}
	return empty
}

// IsFull reports whether the construction cap is reached.
func (b *Building) IsFull() bool {
	return len(b.floors) >= b.limits.MaxFloors
}

// FullyLeased reports whether every constructed floor has a tenant.
func (b *Building) FullyLeased() bool {
	return b.Vacancies() == 0
}

// AddFloor builds a new floor of the given type on top of the tower.
func (b *Building) AddFloor(t apartment.Type) (*Floor, error) {
	if b.IsFull() {
		return nil, ErrCapacityReached
	}
	if b.Capital < t.Cost {
		return nil, ErrInsufficientCapital
	}

	f := &Floor{
		Number:          len(b.floors) + 1,
		Type:            t.Name,
		BaseRent:        rules.BaseRent(t.Cost),
		BaseMaintenance: t.BaseMaintenance,
	}
	b.floors = append(b.floors, f)
	b.Capital -= t.Cost

	b.builds[b.Week] = append(b.builds[b.Week], BuildRecord{Floor: f.Number, Type: t.Name, Cost: t.Cost})
	return f, nil
}

// AssignTenant moves a tenant into floor n. Occupancy is permanent.
func (b *Building) AssignTenant(tenant Tenant, n int) error {
	f, ok := b.Floor(n)
	if !ok {
		return ErrInvalidFloor
	}
	if f.Occupied() {
		return ErrFloorOccupied
	}
	f.Tenant = &tenant

	b.moveIns[b.Week] = append(b.moveIns[b.Week], MoveInRecord{Floor: n, Tenant: tenant.Name})
	return nil
}

// WeeklyMaintenance = ground + floor count + Σ per-floor upkeep.
func (b *Building) WeeklyMaintenance() int {
	total := rules.GroundMaintenance + len(b.floors)
	for _, f := range b.floors {
		total += rules.FloorMaintenance(f.BaseMaintenance, f.Number)
	}
	return total
}

// WeeklyIncome sums the rent of every occupied floor.
func (b *Building) WeeklyIncome() int {
	income := 0
	for _, f := range b.floors {
		income += f.Rent(b.limits.PrefBonusPercent)
	}
	return income
}

// SettleWeek applies one week of income and upkeep to the capital.
// It must be called exactly once per week.
func (b *Building) SettleWeek() rules.Settlement {
	income := b.WeeklyIncome()
	maint := b.WeeklyMaintenance()
	net := income - maint
	b.Capital += net
	return rules.Settlement{
		Week:        b.Week,
		Income:      income,
		Maintenance: maint,
		Net:         net,
		Capital:     b.Capital,
	}
}

// AdvanceTo moves the week counter forward. It never goes back.
func (b *Building) AdvanceTo(week int) {
	if week > b.Week {
		b.Week = week
	}
}

// BuildsIn returns the build records of a week.
func (b *Building) BuildsIn(week int) []BuildRecord {
	return b.builds[week]
}

// MoveInsIn returns the move-in records of a week.
func (b *Building) MoveInsIn(week int) []MoveInRecord {
	return b.moveIns[week]
}
