package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
)

// NextWordsInput contains parameters for the NextWords operation.
type NextWordsInput struct {
	UserID string
	// Count limits the result; 0 defaults to 10.
	Count int
}

// UpcomingWord is one scheduled review in the NextWords output.
type UpcomingWord struct {
	WordID       string  `json:"word_id"`
	Concept      string  `json:"concept"`
	DueTS        int64   `json:"due_ts"`
	Difficulty   float64 `json:"difficulty"`
	DaysUntilDue float64 `json:"days_until_due"`
	IsOverdue    bool    `json:"is_overdue"`
}

// NextWordsOutput contains the result of the NextWords operation.
type NextWordsOutput struct {
	NextWords []UpcomingWord `json:"next_words"`
}

// NextWords previews the learner's upcoming reviews ordered by due
// time, soonest first.
func (e *Engine) NextWords(ctx context.Context, input NextWordsInput) (*NextWordsOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewInvalidRequest("user_id is required")
	}

	count := input.Count
	if count <= 0 {
		count = 10
	}

	words, err := db.NextDueWords(ctx, e.db, input.UserID, count)
	if err != nil {
		return nil, err
	}

	now := e.now().Unix()
	upcoming := make([]UpcomingWord, 0, len(words))
	for _, w := range words {
		daysUntil := float64(w.NextDueTS-now) / 86400.0
		upcoming = append(upcoming, UpcomingWord{
			WordID:       w.WordID,
			Concept:      w.Concept,
			DueTS:        w.NextDueTS,
			Difficulty:   w.Difficulty,
			DaysUntilDue: daysUntil,
			IsOverdue:    daysUntil < 0,
		})
	}

	return &NextWordsOutput{NextWords: upcoming}, nil
}
