package engine

import (
	"errors"
	"math/rand/v2"

	"github.com/MRamiBalles/apt100/internal/console"
)

// Sampler draws k distinct indices from [0, n).
type Sampler interface {
	Sample(n, k int) []int
}

// RandSampler samples without replacement from a seeded PCG source.
type RandSampler struct {
	rng *rand.Rand
}

// NewRandSampler creates a sampler. The same seed yields the same draws.
func NewRandSampler(seed uint64) *RandSampler {
	return &RandSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandSampler) Sample(n, k int) []int {
	perm := s.rng.Perm(n)
	return perm[:min(k, n)]
}

// Outcome is the result of a selection sub-flow.
type Outcome int

const (
	OutcomeSelected Outcome = iota
	OutcomeCancel
	OutcomeForceSpend
)

// choose lists options under title and reads a pick. 0 cancels. Invalid input
// asks again with the same options. It returns the picked index on
// OutcomeSelected.
func (e *Engine) choose(cal *Calendar, flow Flow, title string, options []string) (Outcome, int, error) {
	p := e.prompt
	for {
		p.Println("\n" + title)
		for i, o := range options {
			p.Printf("  %d. %s\n", i+1, o)
		}
		p.Printf("  0. Cancel (max %d)\n", cal.MaxCancels())

		c, err := p.ReadInt("> ", 0, len(options))
		if errors.Is(err, console.ErrInvalidInput) {
			continue
		}
		if err != nil {
			return OutcomeCancel, 0, err
		}

		if c == 0 {
			streak, forced := cal.Cancel(flow)
			if forced {
				p.Println("⚠️ Too many cancellations. This action is consumed.")
				return OutcomeForceSpend, 0, nil
			}
			p.Printf("🔙 Cancelled (%d/%d). Returning to action selection... (no action spent)\n", streak, cal.MaxCancels())
			return OutcomeCancel, 0, nil
		}

		cal.ResetStreak(flow)
		return OutcomeSelected, c - 1, nil
	}
}
