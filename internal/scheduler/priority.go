package scheduler

import (
	"time"

	"github.com/hpungsan/lexi/internal/model"
)

// Factor weights for the combined priority score. Fixed constants, not
// learned.
const (
	dueWeight         = 2.0
	forgettingWeight  = 1.5
	flowWeight        = 1.0
	stateWeight       = 1.2
	uncertaintyFactor = 0.5
	performanceWeight = 1.0
)

// Priority combines due-ness, forgetting risk, difficulty/ability
// match, learning state, exploration uncertainty, and historical
// accuracy into a single ranking score. Higher is more urgent.
func (s *Scheduler) Priority(w *model.WordState, u *model.UserState, now time.Time) float64 {
	// Due for review: unbounded urgency growth, capped at 10.
	due := 0.0
	if now.Unix() >= w.NextDueTS {
		daysOverdue := daysBetween(w.NextDueTS, now)
		due = 1.0 + daysOverdue*0.5
		if due > 10 {
			due = 10
		}
	}

	// Forgetting curve.
	forgetting := (1.0 - Retrievability(w, now)) * 3.0
	if forgetting < 0 {
		forgetting = 0
	}

	// Flow: reward words matched to the learner's level. Ability maps
	// onto the 1-10 difficulty scale as ability+5.
	gap := w.Difficulty - (u.AbilityTheta + 5.0)
	if gap < 0 {
		gap = -gap
	}
	flow := 2.0 - gap*0.2
	if flow < 0.1 {
		flow = 0.1
	}

	// Learning state. Learning and lapsed words outrank plain new ones,
	// so those checks come first: a new word that has already lapsed
	// scores as lapsed, not as new.
	state := 1.0
	switch {
	case w.LearnState == model.Learning:
		state = 2.0
	case w.LapseCount > 0:
		state = 1.8
	case w.LearnState == model.New:
		state = 1.5
	}

	uncertainty := w.Uncertainty * s.params.UncertaintyWeight

	// Historical accuracy: boost struggling words, damp well-known ones.
	performance := 1.0
	if w.RepsTotal > 0 {
		acc := w.Accuracy()
		if acc < 0.5 {
			performance = 1.5
		} else if acc > 0.9 {
			performance = 0.7
		}
	}

	return due*dueWeight +
		forgetting*forgettingWeight +
		flow*flowWeight +
		state*stateWeight +
		uncertainty*uncertaintyFactor +
		performance*performanceWeight
}
