package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

// WordStatesInput contains parameters for the WordStates operation.
type WordStatesInput struct {
	UserID string
}

// WordDetail is the per-word view in the WordStates output.
type WordDetail struct {
	WordID         string           `json:"word_id"`
	Concept        string           `json:"concept"`
	Difficulty     float64          `json:"difficulty"`
	Stability      float64          `json:"stability"`
	Retrievability float64          `json:"retrievability"`
	TotalReviews   int              `json:"total_reviews"`
	CorrectReviews int              `json:"correct_reviews"`
	Streak         int              `json:"streak"`
	Accuracy       float64          `json:"accuracy"`
	LearnState     model.LearnState `json:"learn_state"`
}

// WordStatesOutput contains the result of the WordStates operation.
type WordStatesOutput struct {
	Words []WordDetail `json:"words"`
}

// WordStates dumps the learner's memory records, hardest first, for
// inspection and analysis.
func (e *Engine) WordStates(ctx context.Context, input WordStatesInput) (*WordStatesOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewInvalidRequest("user_id is required")
	}

	words, err := db.ListWordsByDifficulty(ctx, e.db, input.UserID)
	if err != nil {
		return nil, err
	}

	details := make([]WordDetail, 0, len(words))
	for _, w := range words {
		details = append(details, WordDetail{
			WordID:         w.WordID,
			Concept:        w.Concept,
			Difficulty:     w.Difficulty,
			Stability:      w.Stability,
			Retrievability: w.Retrievability,
			TotalReviews:   w.RepsTotal,
			CorrectReviews: w.RepsCorrect,
			Streak:         w.StreakCorrect,
			Accuracy:       w.Accuracy(),
			LearnState:     w.LearnState,
		})
	}

	return &WordStatesOutput{Words: details}, nil
}
