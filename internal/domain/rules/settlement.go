// Package rules contains the pure calculation logic for the tower economy.
// This package is PURE and must NOT import any infrastructure packages.
package rules

const (
	// GroundMaintenance is the fixed weekly upkeep of the lobby.
	GroundMaintenance = 20
	// MinBaseMaintenance is the floor applied to the derived per-type upkeep.
	MinBaseMaintenance = 5
	// RentPercent is the share of the build cost charged as weekly base rent.
	RentPercent = 60
)

// BaseMaintenance derives the per-type weekly upkeep from its build cost.
func BaseMaintenance(cost int) int {
	return max(MinBaseMaintenance, cost/15+4)
}

// BaseRent is the weekly rent of a floor before any preference bonus.
func BaseRent(cost int) int {
	return cost * RentPercent / 100
}

// HeightMaintenance is the extra upkeep of a floor due to its position: ⌊1.5 × floor⌋.
func HeightMaintenance(floorNumber int) int {
	return floorNumber * 3 / 2
}

// FloorMaintenance is the total upkeep of one floor.
func FloorMaintenance(baseMaintenance, floorNumber int) int {
	return baseMaintenance + HeightMaintenance(floorNumber)
}

// Rent computes the weekly rent of an occupied floor.
// Tenants living in their preferred type pay bonusPercent more, truncated.
func Rent(baseRent int, preferred bool, bonusPercent int) int {
	if !preferred {
		return baseRent
	}
	return baseRent * (100 + bonusPercent) / 100
}

// Settlement is the outcome of one week of operation.
type Settlement struct {
	Week        int `json:"week"`
	Income      int `json:"income"`
	Maintenance int `json:"maintenance"`
	Net         int `json:"net"`
	Capital     int `json:"capital"` // Capital after the settlement was applied
}

// Verdict classifies how a year ended.
type Verdict string

const (
	VerdictBankrupt  Verdict = "BANKRUPT"
	VerdictSurvived  Verdict = "SURVIVED"
	VerdictBrokeEven Verdict = "BROKE_EVEN"
	VerdictThrived   Verdict = "THRIVED"
)

// JudgeYear compares the final capital with the capital the year started with.
func JudgeYear(start, final, bankruptLimit int) Verdict {
	switch {
	case final <= bankruptLimit:
		return VerdictBankrupt
	case final < start:
		return VerdictSurvived
	case final == start:
		return VerdictBrokeEven
	default:
		return VerdictThrived
	}
}
