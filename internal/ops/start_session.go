package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

// StartSessionInput contains parameters for the StartSession operation.
type StartSessionInput struct {
	UserID string
	// SessionLength is the requested number of words; 0 uses the
	// configured default.
	SessionLength int
}

// StartSessionOutput contains the result of the StartSession operation.
type StartSessionOutput struct {
	SessionID string   `json:"session_id"`
	Words     []string `json:"words"`
	// RecommendedDifficulty maps the learner's ability onto the 1-10
	// difficulty scale.
	RecommendedDifficulty float64 `json:"recommended_difficulty"`
}

// StartSession opens a new session for the learner and selects its
// word list. A learner can hold at most one active session; a second
// start without an intervening end is rejected. Sessions of different
// learners are independent.
func (e *Engine) StartSession(ctx context.Context, input StartSessionInput) (*StartSessionOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewInvalidRequest("user_id is required")
	}

	ls := e.learner(input.UserID)
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.log != nil {
		return nil, errors.NewSessionActive(input.UserID, ls.log.SessionID)
	}

	user, err := db.GetOrCreateUser(ctx, e.db, input.UserID)
	if err != nil {
		return nil, err
	}

	words, err := db.ListWords(ctx, e.db, input.UserID)
	if err != nil {
		return nil, err
	}

	count := input.SessionLength
	if count <= 0 {
		count = e.cfg.SessionWordTarget
	}

	now := e.now()
	selected := e.sched.Select(words, user, now, count)

	ls.log = &model.SessionLog{
		SessionID: newSessionID(now),
		UserID:    input.UserID,
		StartTS:   now.Unix(),
	}
	ls.startAbility = user.AbilityTheta
	ls.rtSumMS = 0

	return &StartSessionOutput{
		SessionID:             ls.log.SessionID,
		Words:                 selected,
		RecommendedDifficulty: user.AbilityTheta + 5.0,
	}, nil
}
