package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
	"github.com/hpungsan/lexi/internal/scheduler"
)

// RecordResponseInput contains parameters for the RecordResponse
// operation.
type RecordResponseInput struct {
	UserID         string
	WordID         string
	IsCorrect      bool
	ResponseTimeMS float64
	UsedHint       bool
}

// RecordResponseOutput contains the result of the RecordResponse
// operation.
type RecordResponseOutput struct {
	Quality      model.Quality    `json:"quality"`
	Stability    float64          `json:"stability"`
	Difficulty   float64          `json:"difficulty"`
	NextDueTS    int64            `json:"next_due_ts"`
	LearnState   model.LearnState `json:"learn_state"`
	FatigueIndex float64          `json:"fatigue_index"`
}

// RecordResponse grades one response, advances the word's memory
// state, and updates session bookkeeping (words shown, load profile,
// fatigue). It requires an active session and an existing memory
// record: a response against an unknown word or an idle session is a
// reportable error, never a silent drop.
func (e *Engine) RecordResponse(ctx context.Context, input RecordResponseInput) (*RecordResponseOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewInvalidRequest("user_id is required")
	}
	if strings.TrimSpace(input.WordID) == "" {
		return nil, errors.NewInvalidRequest("word_id is required")
	}
	if input.ResponseTimeMS < 0 {
		return nil, errors.NewInvalidRequest("response_time_ms must be non-negative")
	}

	ls := e.learner(input.UserID)
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.log == nil {
		return nil, errors.NewNoActiveSession(input.UserID)
	}

	word, err := db.GetWord(ctx, e.db, input.UserID, input.WordID)
	if err != nil {
		return nil, err
	}

	wasNew := word.LearnState == model.New

	// Grade against the prior running average, then advance the state
	// machine, which folds hint usage and extreme latency into the
	// final grade.
	raw := scheduler.Classify(input.IsCorrect, input.ResponseTimeMS, word.AvgRTMS)
	e.sched.Update(word, raw, input.ResponseTimeMS, input.UsedHint, e.now())

	if err := db.UpsertWord(ctx, e.db, input.UserID, word); err != nil {
		return nil, err
	}

	ls.log.TotalResponses++
	if input.IsCorrect {
		ls.log.CorrectResponses++
	}
	ls.rtSumMS += input.ResponseTimeMS

	if !ls.log.Contains(input.WordID) {
		ls.log.WordsShown = append(ls.log.WordsShown, input.WordID)
		if wasNew {
			ls.log.NewWordsIntroduced++
		} else {
			ls.log.ReviewsDone++
		}
	}

	ls.log.LoadProfile = append(ls.log.LoadProfile, word.Difficulty)

	// Fatigue rises with session progress and with errors.
	user, err := db.GetOrCreateUser(ctx, e.db, input.UserID)
	if err != nil {
		return nil, err
	}
	progress := float64(len(ls.log.WordsShown)) / float64(e.cfg.SessionWordTarget)
	increase := 0.1 * progress
	if !input.IsCorrect {
		increase += 0.05
	}
	user.FatigueIndex = user.FatigueIndex + increase
	if user.FatigueIndex > 1.0 {
		user.FatigueIndex = 1.0
	}
	if err := db.UpsertUser(ctx, e.db, user); err != nil {
		return nil, err
	}
	ls.log.FatigueTrace = append(ls.log.FatigueTrace, user.FatigueIndex)

	return &RecordResponseOutput{
		Quality:      word.LastQuality,
		Stability:    word.Stability,
		Difficulty:   word.Difficulty,
		NextDueTS:    word.NextDueTS,
		LearnState:   word.LearnState,
		FatigueIndex: user.FatigueIndex,
	}, nil
}
