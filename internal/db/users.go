package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

// GetUser retrieves a user state by learner id.
func GetUser(ctx context.Context, db *sql.DB, userID string) (*model.UserState, error) {
	query := `
		SELECT user_id, ability_theta, daily_streak, sessions_count,
			fatigue_index, target_words_total, words_mastered,
			new_word_quota_per_session, preferred_session_length,
			last_session_ts, total_study_time, avg_session_accuracy
		FROM user_states
		WHERE user_id = ?
	`

	var u model.UserState
	err := db.QueryRowContext(ctx, query, userID).Scan(
		&u.UserID, &u.AbilityTheta, &u.DailyStreak, &u.SessionsCount,
		&u.FatigueIndex, &u.TargetWordsTotal, &u.WordsMastered,
		&u.NewWordQuotaPerSession, &u.PreferredSessionLength,
		&u.LastSessionTS, &u.TotalStudyTime, &u.AvgSessionAccuracy,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(userID)
	}
	if err != nil {
		return nil, errors.NewStore(err)
	}

	return &u, nil
}

// GetOrCreateUser retrieves a user state, creating one with defaults on
// first access.
func GetOrCreateUser(ctx context.Context, db *sql.DB, userID string) (*model.UserState, error) {
	u, err := GetUser(ctx, db, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, err
	}

	u = model.NewUserState(userID)
	if err := UpsertUser(ctx, db, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpsertUser writes a user state, replacing any existing row.
func UpsertUser(ctx context.Context, db *sql.DB, u *model.UserState) error {
	query := `
		INSERT INTO user_states (
			user_id, ability_theta, daily_streak, sessions_count,
			fatigue_index, target_words_total, words_mastered,
			new_word_quota_per_session, preferred_session_length,
			last_session_ts, total_study_time, avg_session_accuracy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			ability_theta = excluded.ability_theta,
			daily_streak = excluded.daily_streak,
			sessions_count = excluded.sessions_count,
			fatigue_index = excluded.fatigue_index,
			target_words_total = excluded.target_words_total,
			words_mastered = excluded.words_mastered,
			new_word_quota_per_session = excluded.new_word_quota_per_session,
			preferred_session_length = excluded.preferred_session_length,
			last_session_ts = excluded.last_session_ts,
			total_study_time = excluded.total_study_time,
			avg_session_accuracy = excluded.avg_session_accuracy
	`

	_, err := db.ExecContext(ctx, query,
		u.UserID, u.AbilityTheta, u.DailyStreak, u.SessionsCount,
		u.FatigueIndex, u.TargetWordsTotal, u.WordsMastered,
		u.NewWordQuotaPerSession, u.PreferredSessionLength,
		u.LastSessionTS, u.TotalStudyTime, u.AvgSessionAccuracy,
	)
	if err != nil {
		return errors.NewStore(err)
	}

	return nil
}
