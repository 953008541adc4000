// Package config provides the tunable rules of a game session.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the parameters of the simulation.
type Rules struct {
	// Calendar
	TotalWeeks     int `yaml:"total_weeks"`
	ActionsPerWeek int `yaml:"actions_per_week"`

	// Economy
	StartingCapital  int `yaml:"starting_capital"`
	BankruptLimit    int `yaml:"bankrupt_limit"`
	PrefBonusPercent int `yaml:"pref_bonus_percent"`

	// Building
	MaxFloors int `yaml:"max_floors"`

	// Selection sub-flows
	OptionsPerDraw int `yaml:"options_per_draw"`
	MaxCancels     int `yaml:"max_cancels"`

	// Append-only text log
	LogPath string `yaml:"log_path"`
}

// DefaultRules returns the values of a full game.
func DefaultRules() *Rules {
	return &Rules{
		TotalWeeks:     52,
		ActionsPerWeek: 7,

		StartingCapital:  500,
		BankruptLimit:    -50,
		PrefBonusPercent: 10,

		MaxFloors: 100,

		OptionsPerDraw: 3,
		MaxCancels:     3,

		LogPath: "game_log.txt",
	}
}

// QuickRules returns a short calendar for play-testing.
func QuickRules() *Rules {
	r := DefaultRules()
	r.TotalWeeks = 4
	r.ActionsPerWeek = 3
	r.MaxFloors = 5
	return r
}

// Load overlays the YAML file at path on base. Keys absent from the file keep their base value.
func Load(path string, base *Rules) (*Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := *base
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &r, nil
}

// Validate rejects rule sets the game loop cannot run.
func (r *Rules) Validate() error {
	var errs []error
	if r.TotalWeeks < 1 {
		errs = append(errs, errors.New("total_weeks must be at least 1"))
	}
	if r.ActionsPerWeek < 1 {
		errs = append(errs, errors.New("actions_per_week must be at least 1"))
	}
	if r.MaxFloors < 1 {
		errs = append(errs, errors.New("max_floors must be at least 1"))
	}
	if r.OptionsPerDraw < 1 {
		errs = append(errs, errors.New("options_per_draw must be at least 1"))
	}
	if r.MaxCancels < 1 {
		errs = append(errs, errors.New("max_cancels must be at least 1"))
	}
	if r.PrefBonusPercent < 0 {
		errs = append(errs, errors.New("pref_bonus_percent must not be negative"))
	}
	if r.BankruptLimit >= r.StartingCapital {
		errs = append(errs, fmt.Errorf("bankrupt_limit (%d) must be below starting_capital (%d)", r.BankruptLimit, r.StartingCapital))
	}
	if r.LogPath == "" {
		errs = append(errs, errors.New("log_path must not be empty"))
	}
	return errors.Join(errs...)
}
