package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

// recentSessionLimit is the number of recent sessions included in
// analytics output.
const recentSessionLimit = 10

// AnalyticsInput contains parameters for the Analytics operation.
type AnalyticsInput struct {
	UserID string
}

// SessionSummary is a condensed view of one past session.
type SessionSummary struct {
	SessionID string  `json:"session_id"`
	Accuracy  float64 `json:"accuracy"`
	AvgRTMS   float64 `json:"avg_rt_ms"`
	Date      string  `json:"date"`
}

// AnalyticsOutput contains the result of the Analytics operation.
type AnalyticsOutput struct {
	UserState       *model.UserState `json:"user_state"`
	WordStatistics  *db.WordStats    `json:"word_statistics"`
	RecentSessions  []SessionSummary `json:"recent_sessions"`
	Recommendations []string         `json:"recommendations"`
}

// Analytics aggregates learner statistics: word counts by learning
// state, average difficulty/stability/accuracy, recent session
// summaries, and threshold-rule recommendations derived from those
// aggregates.
func (e *Engine) Analytics(ctx context.Context, input AnalyticsInput) (*AnalyticsOutput, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.NewInvalidRequest("user_id is required")
	}

	user, err := db.GetOrCreateUser(ctx, e.db, input.UserID)
	if err != nil {
		return nil, err
	}

	stats, err := db.GetWordStats(ctx, e.db, input.UserID)
	if err != nil {
		return nil, err
	}

	logs, err := db.RecentSessionLogs(ctx, e.db, input.UserID, recentSessionLimit)
	if err != nil {
		return nil, err
	}

	sessions := make([]SessionSummary, 0, len(logs))
	for _, l := range logs {
		sessions = append(sessions, SessionSummary{
			SessionID: l.SessionID,
			Accuracy:  l.Accuracy,
			AvgRTMS:   l.AvgRTMS,
			Date:      time.Unix(l.StartTS, 0).UTC().Format(time.RFC3339),
		})
	}

	return &AnalyticsOutput{
		UserState:       user,
		WordStatistics:  stats,
		RecentSessions:  sessions,
		Recommendations: recommendations(user, stats),
	}, nil
}

// recommendations derives study suggestions from simple threshold
// rules over the aggregates. Presentation logic only; the scheduling
// core does not depend on it.
func recommendations(user *model.UserState, stats *db.WordStats) []string {
	var recs []string

	if user.SessionsCount < 5 {
		recs = append(recs, "Try to study consistently for better retention")
	}

	if stats.TotalWords > 0 {
		if stats.AvgAccuracy < 0.6 {
			recs = append(recs, "Focus on reviewing difficult words more frequently")
		} else if stats.AvgAccuracy > 0.9 {
			recs = append(recs, "Great accuracy! Consider adding more challenging vocabulary")
		}
	}

	if stats.LearningWords > stats.MatureWords*2 {
		recs = append(recs, "Focus on mastering current words before adding new ones")
	}
	if stats.MatureWords > 20 {
		recs = append(recs, "Excellent progress! You're building a strong vocabulary foundation")
	}

	if user.AbilityTheta < -1 {
		recs = append(recs, "Start with easier vocabulary to build confidence")
	} else if user.AbilityTheta > 1 {
		recs = append(recs, "You're ready for more advanced vocabulary")
	}

	if user.SessionsCount > 0 && user.AvgSessionAccuracy < 0.7 {
		recs = append(recs, "Try shorter study sessions to maintain focus")
	}

	return recs
}
