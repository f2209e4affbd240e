package scheduler

import "math"

// Ability estimation: a logistic expected-accuracy model with an
// Elo-style correction applied at session end. Ability lives on the
// theta scale (expected range [-3, +3]); theta+5 maps onto the 1-10
// difficulty scale.

const abilityScale = 1.25

// ExpectedAccuracy returns the probability that a learner with the
// given ability answers material of the given difficulty correctly.
func ExpectedAccuracy(abilityTheta, difficulty float64) float64 {
	x := (abilityTheta + 5.0 - difficulty) / abilityScale
	return 1.0 / (1.0 + math.Exp(-x))
}

// abilityK returns the adjustment strength based on how many sessions
// the learner has completed.
func abilityK(sessionsCount int) float64 {
	if sessionsCount < 5 {
		return 0.3 // New learner: fast convergence.
	}
	if sessionsCount < 20 {
		return 0.2
	}
	return 0.1 // Mature estimate: small adjustments.
}

// NextAbility computes the updated ability estimate after a session,
// from the session's observed accuracy against the mean difficulty of
// the material shown. The result is clamped to [-3, +3].
func NextAbility(current, meanDifficulty, accuracy float64, sessionsCount int) float64 {
	expected := ExpectedAccuracy(current, meanDifficulty)
	next := current + (accuracy-expected)*abilityK(sessionsCount)
	return clamp(next, -3, 3)
}
