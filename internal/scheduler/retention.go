package scheduler

import (
	"math"
	"time"

	"github.com/hpungsan/lexi/internal/model"
)

// Retrievability computes the current probability of successful recall
// as exp(-elapsedDays/stability), clamped to [0, 1]. A word that has
// never been reviewed is treated as fully known until first exposure.
// Pure function of its inputs.
func Retrievability(w *model.WordState, now time.Time) float64 {
	if w.LastReviewTS == 0 {
		return 1.0
	}
	elapsed := daysBetween(w.LastReviewTS, now)
	r := math.Exp(-elapsed / w.Stability)
	return clamp(r, 0, 1)
}
