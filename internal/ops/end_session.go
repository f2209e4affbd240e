package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/scheduler"
)

// accuracySmoothing is the EMA factor for the user's rolling session
// accuracy.
const accuracySmoothing = 0.1

// EndSessionInput contains parameters for the EndSession operation.
type EndSessionInput struct {
	UserID string
}

// EndSessionOutput contains the result of the EndSession operation.
type EndSessionOutput struct {
	SessionID       string  `json:"session_id"`
	Accuracy        float64 `json:"accuracy"`
	DurationMinutes float64 `json:"duration_minutes"`
	TotalResponses  int     `json:"total_responses"`
	AbilityTheta    float64 `json:"ability_theta"`
	// AbilityDelta is the change against the baseline recorded at
	// session start.
	AbilityDelta float64 `json:"ability_delta"`
}

// nextDailyStreak advances the consecutive-day study counter. A
// session on the same UTC day keeps the streak, the day after extends
// it, and any longer gap restarts it at one.
func nextDailyStreak(streak int, lastSessionTS int64, now time.Time) int {
	if lastSessionTS == 0 {
		return 1
	}
	today := now.UTC().Truncate(24 * time.Hour)
	last := time.Unix(lastSessionTS, 0).UTC().Truncate(24 * time.Hour)
	switch today.Sub(last) {
	case 0:
		return streak
	case 24 * time.Hour:
		return streak + 1
	default:
		return 1
	}
}

// EndSession finalizes the learner's active session: it computes
// session accuracy, rolls it into the user's aggregates, updates the
// ability estimate, resets fatigue, and persists the session log.
// Ending with no active session is a reportable no-op that leaves all
// state unchanged.
func (e *Engine) EndSession(ctx context.Context, input EndSessionInput) (*EndSessionOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewInvalidRequest("user_id is required")
	}

	ls := e.learner(input.UserID)
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.log == nil {
		return nil, errors.NewNoActiveSession(input.UserID)
	}

	log := ls.log
	now := e.now()
	log.EndTS = now.Unix()
	duration := float64(log.EndTS-log.StartTS) / 60.0

	if log.TotalResponses > 0 {
		log.Accuracy = float64(log.CorrectResponses) / float64(log.TotalResponses)
		log.AvgRTMS = ls.rtSumMS / float64(log.TotalResponses)
	}

	user, err := db.GetOrCreateUser(ctx, e.db, input.UserID)
	if err != nil {
		return nil, err
	}

	user.SessionsCount++
	user.TotalStudyTime += duration
	user.DailyStreak = nextDailyStreak(user.DailyStreak, user.LastSessionTS, now)
	user.LastSessionTS = log.EndTS
	user.AvgSessionAccuracy = (1-accuracySmoothing)*user.AvgSessionAccuracy +
		accuracySmoothing*log.Accuracy
	user.FatigueIndex = 0

	// Ability correction from observed accuracy against the mean
	// difficulty of the material shown.
	if log.TotalResponses > 0 && len(log.LoadProfile) > 0 {
		sum := 0.0
		for _, d := range log.LoadProfile {
			sum += d
		}
		meanDifficulty := sum / float64(len(log.LoadProfile))
		user.AbilityTheta = scheduler.NextAbility(
			user.AbilityTheta, meanDifficulty, log.Accuracy, user.SessionsCount)
	}

	stats, err := db.GetWordStats(ctx, e.db, input.UserID)
	if err != nil {
		return nil, err
	}
	user.WordsMastered = stats.MatureWords

	if err := db.UpsertUser(ctx, e.db, user); err != nil {
		return nil, err
	}
	if err := db.InsertSessionLog(ctx, e.db, log); err != nil {
		return nil, err
	}

	ls.log = nil
	ls.rtSumMS = 0

	return &EndSessionOutput{
		SessionID:       log.SessionID,
		Accuracy:        log.Accuracy,
		DurationMinutes: duration,
		TotalResponses:  log.TotalResponses,
		AbilityTheta:    user.AbilityTheta,
		AbilityDelta:    user.AbilityTheta - ls.startAbility,
	}, nil
}
