package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
)

// ResetInput contains parameters for the Reset operation.
type ResetInput struct {
	UserID string
}

// ResetOutput contains the result of the Reset operation.
type ResetOutput struct {
	UserID string `json:"user_id"`
}

// Reset deletes all stored state for a learner: the user record, every
// memory record, and all session logs. Any in-memory session context is
// discarded as well.
func (e *Engine) Reset(ctx context.Context, input ResetInput) (*ResetOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewInvalidRequest("user_id is required")
	}

	ls := e.learner(input.UserID)
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if err := db.ResetUser(ctx, e.db, input.UserID); err != nil {
		return nil, err
	}

	ls.log = nil
	ls.rtSumMS = 0
	ls.startAbility = 0

	return &ResetOutput{UserID: input.UserID}, nil
}
