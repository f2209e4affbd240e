// Package scheduler implements the adaptive scheduling core: the
// retrievability model, response-quality classification, the FSRS-style
// memory-state updater, multi-factor priority scoring, and the
// epsilon-greedy word selector.
package scheduler

import (
	"math/rand"
	"time"

	"github.com/hpungsan/lexi/internal/config"
)

// Params holds the tunable constants of the scheduling algorithms.
type Params struct {
	// ExplorationRate is the epsilon for epsilon-greedy selection.
	ExplorationRate float64
	// UncertaintyWeight scales the uncertainty factor in priority scoring.
	UncertaintyWeight float64
	// LearningStepsMinutes are the learning-step intervals in minutes.
	// The first step seeds stability when a new word graduates.
	LearningStepsMinutes []float64
	// MatureStabilityDays is the stability threshold for maturity.
	MatureStabilityDays float64
	// MaxIntervalDays caps the review interval.
	MaxIntervalDays float64
}

// DefaultParams returns the stock parameters.
func DefaultParams() Params {
	return Params{
		ExplorationRate:      0.1,
		UncertaintyWeight:    0.2,
		LearningStepsMinutes: []float64{1, 10},
		MatureStabilityDays:  21,
		MaxIntervalDays:      36500,
	}
}

// ParamsFromConfig builds Params from application configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	p := DefaultParams()
	if cfg == nil {
		return p
	}
	if cfg.ExplorationRate > 0 {
		p.ExplorationRate = cfg.ExplorationRate
	}
	if cfg.UncertaintyWeight > 0 {
		p.UncertaintyWeight = cfg.UncertaintyWeight
	}
	if len(cfg.LearningStepsMinutes) > 0 {
		p.LearningStepsMinutes = cfg.LearningStepsMinutes
	}
	if cfg.MatureStabilityDays > 0 {
		p.MatureStabilityDays = cfg.MatureStabilityDays
	}
	if cfg.MaxIntervalDays > 0 {
		p.MaxIntervalDays = cfg.MaxIntervalDays
	}
	return p
}

// Scheduler bundles the algorithm parameters with a random source.
// The source is injectable so tests can assert exact selections and
// ingestion difficulties.
type Scheduler struct {
	params Params
	rng    *rand.Rand
}

// New creates a Scheduler. A nil rng falls back to a time-seeded source.
func New(params Params, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{params: params, rng: rng}
}

// Params returns the scheduler's parameters.
func (s *Scheduler) Params() Params {
	return s.params
}

const secondsPerDay = 24 * 3600

// daysBetween returns the elapsed days from ts to now, as a fraction.
func daysBetween(ts int64, now time.Time) float64 {
	return float64(now.Unix()-ts) / secondsPerDay
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
