package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

// VocabularyItem is one (concept, definition) pair supplied by the
// ingestion collaborator.
type VocabularyItem struct {
	Concept    string `json:"concept"`
	Definition string `json:"definition"`
}

// InitializeInput contains parameters for the Initialize operation.
type InitializeInput struct {
	UserID     string
	Vocabulary []VocabularyItem
}

// InitializeOutput contains the result of the Initialize operation.
type InitializeOutput struct {
	WordsAdded   int `json:"words_added"`
	WordsSkipped int `json:"words_skipped"`
}

// Initialize creates memory records for new vocabulary. Initialization
// is idempotent: a word already known for the learner is left
// untouched. New words get a heuristically estimated initial difficulty
// and become due immediately.
func (e *Engine) Initialize(ctx context.Context, input InitializeInput) (*InitializeOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewInvalidRequest("user_id is required")
	}

	if _, err := db.GetOrCreateUser(ctx, e.db, input.UserID); err != nil {
		return nil, err
	}

	now := e.now()
	output := &InitializeOutput{}

	for _, item := range input.Vocabulary {
		concept := strings.TrimSpace(item.Concept)
		definition := strings.TrimSpace(item.Definition)
		if concept == "" || definition == "" {
			output.WordsSkipped++
			continue
		}

		exists, err := db.WordExists(ctx, e.db, input.UserID, concept)
		if err != nil {
			return nil, err
		}
		if exists {
			output.WordsSkipped++
			continue
		}

		difficulty := e.sched.EstimateDifficulty(concept, definition)
		w := model.NewWordState(concept, concept, definition, difficulty, now.Unix())
		if err := db.UpsertWord(ctx, e.db, input.UserID, w); err != nil {
			return nil, err
		}
		output.WordsAdded++
	}

	return output, nil
}
