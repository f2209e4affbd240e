package scheduler

import (
	"time"

	"github.com/hpungsan/lexi/internal/model"
)

// Response-time EMA smoothing and the adjustment bounds applied on top
// of the classifier's baseline grade.
const (
	rtSmoothing      = 0.1
	slowRTMultiplier = 2.0
	fastRTMultiplier = 0.5

	failedNewStability = 0.1 // days

	uncertaintyDecay = 0.95
	uncertaintyFloor = 0.1
)

// stabilityMultipliers by grade, before difficulty damping.
var stabilityMultipliers = map[model.Quality]float64{
	model.Fail: 0.2,
	model.Hard: 1.0,
	model.Good: 2.5,
	model.Easy: 4.0,
}

// difficultyDeltas by grade, applied to non-new words.
var difficultyDeltas = map[model.Quality]float64{
	model.Fail: 0.3,
	model.Hard: 0.1,
	model.Good: -0.05,
	model.Easy: -0.15,
}

// Update advances the word's memory state after a graded response.
// It adjusts the raw grade for hint usage and extreme latency, updates
// counters and response-time statistics, runs the stability/difficulty
// state machine, and reschedules the word. The word is mutated in
// place; inputs are assumed well-formed.
func (s *Scheduler) Update(w *model.WordState, raw model.Quality, responseTimeMS float64, usedHint bool, now time.Time) {
	// Running average response time: exponential moving average,
	// initialized to the first observed latency.
	if w.RepsTotal == 0 {
		w.AvgRTMS = responseTimeMS
	} else {
		w.AvgRTMS = (1-rtSmoothing)*w.AvgRTMS + rtSmoothing*responseTimeMS
	}
	w.LastRTMS = responseTimeMS
	w.RepsTotal++

	adjusted := raw
	if usedHint {
		w.HintUsedCount++
		adjusted = adjusted.Downgrade()
	}
	if responseTimeMS > w.AvgRTMS*slowRTMultiplier {
		adjusted = adjusted.Downgrade()
	} else if responseTimeMS < w.AvgRTMS*fastRTMultiplier {
		adjusted = adjusted.Upgrade()
	}
	w.LastQuality = adjusted

	// Streak and lapse counters track the raw outcome, not the
	// adjusted grade.
	if raw != model.Fail {
		w.RepsCorrect++
		w.StreakCorrect++
	} else {
		w.StreakCorrect = 0
		w.LapseCount++
	}

	if w.LearnState == model.New {
		if adjusted == model.Fail {
			w.Stability = failedNewStability
		} else {
			w.Stability = s.params.LearningStepsMinutes[0] / (24 * 60)
			w.LearnState = model.Learning
		}
	} else {
		w.Stability *= s.stabilityMultiplier(adjusted, w.Difficulty)
		w.Difficulty = clamp(w.Difficulty+difficultyDeltas[adjusted], 1, 10)
	}

	if w.Stability > s.params.MatureStabilityDays {
		w.LearnState = model.Mature
	}

	w.IntervalDays = w.Stability
	if w.IntervalDays > s.params.MaxIntervalDays {
		w.IntervalDays = s.params.MaxIntervalDays
	}
	w.NextDueTS = now.Unix() + int64(w.IntervalDays*secondsPerDay)
	w.LastReviewTS = now.Unix()
	w.Retrievability = 1.0

	w.Uncertainty = w.Uncertainty * uncertaintyDecay
	if w.Uncertainty < uncertaintyFloor {
		w.Uncertainty = uncertaintyFloor
	}
}

// stabilityMultiplier combines the grade's base multiplier with a
// difficulty damping factor: hard words get less boost from good
// responses, easy words get more. The damping is clamped to [0.5, 2.0]
// before application.
func (s *Scheduler) stabilityMultiplier(q model.Quality, difficulty float64) float64 {
	damping := 1.0 - (difficulty-5.0)*0.05
	return stabilityMultipliers[q] * clamp(damping, 0.5, 2.0)
}
