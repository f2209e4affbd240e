package scheduler

import "github.com/hpungsan/lexi/internal/model"

// Response-time ratio thresholds for grading correct answers.
const (
	easyRTRatio = 0.7
	hardRTRatio = 1.3
)

// Classify maps a raw outcome to a baseline quality grade. An incorrect
// answer is Fail unconditionally; a correct answer is graded by the
// ratio of the response time to the word's prior average. The updater
// adjusts this baseline for hint usage and extreme latency before it
// drives any state transition.
func Classify(isCorrect bool, responseTimeMS, priorAvgRTMS float64) model.Quality {
	if !isCorrect {
		return model.Fail
	}

	ratio := 1.0
	if priorAvgRTMS > 0 {
		ratio = responseTimeMS / priorAvgRTMS
	}

	switch {
	case ratio < easyRTRatio:
		return model.Easy
	case ratio < hardRTRatio:
		return model.Good
	default:
		return model.Hard
	}
}
