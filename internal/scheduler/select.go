package scheduler

import (
	"sort"
	"time"

	"github.com/hpungsan/lexi/internal/model"
)

// ranked is a candidate word with its computed priority.
type ranked struct {
	word     *model.WordState
	priority float64
}

// Select produces an ordered session word list of length
// min(count, len(words)) with no duplicates. Candidates are ranked by
// priority; each slot is filled greedily except that, with probability
// equal to the exploration rate, the pick is sampled from the remaining
// candidates weighted by their uncertainty. This biases a fraction of
// the session toward certainty-reducing items.
func (s *Scheduler) Select(words []*model.WordState, u *model.UserState, now time.Time, count int) []string {
	if len(words) == 0 || count <= 0 {
		return nil
	}

	remaining := make([]ranked, 0, len(words))
	for _, w := range words {
		remaining = append(remaining, ranked{word: w, priority: s.Priority(w, u, now)})
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].priority > remaining[j].priority
	})

	if count > len(remaining) {
		count = len(remaining)
	}

	selected := make([]string, 0, count)
	for len(selected) < count {
		idx := 0
		if s.rng.Float64() < s.params.ExplorationRate {
			idx = s.sampleByUncertainty(remaining)
		}
		selected = append(selected, remaining[idx].word.WordID)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return selected
}

// sampleByUncertainty draws an index from candidates with probability
// proportional to each word's uncertainty. Falls back to the top-ranked
// candidate if the total weight is zero.
func (s *Scheduler) sampleByUncertainty(candidates []ranked) int {
	total := 0.0
	for _, c := range candidates {
		total += c.word.Uncertainty
	}
	if total <= 0 {
		return 0
	}

	r := s.rng.Float64() * total
	for i, c := range candidates {
		r -= c.word.Uncertainty
		if r < 0 {
			return i
		}
	}
	return len(candidates) - 1
}
