// Package engine contains the game loop and simulation logic.
//
// A session runs years; a year runs weeks; a week runs the action controller
// until the action budget is spent, then settles. The engine does NOT compute
// money itself: tower.Building owns the ledger and the settlement formula.
package engine
