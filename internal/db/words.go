package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

const wordColumns = `word_id, concept, definition, stability,
	retrievability, difficulty, last_review_ts, next_due_ts,
	interval_days, reps_total, reps_correct, streak_correct,
	lapse_count, avg_rt_ms, last_rt_ms, rt_variance, hint_used_count,
	uncertainty, last_quality, learn_state`

// GetWord retrieves the memory record for one (learner, word) pair.
func GetWord(ctx context.Context, db *sql.DB, userID, wordID string) (*model.WordState, error) {
	query := `SELECT ` + wordColumns + `
		FROM word_states
		WHERE user_id = ? AND word_id = ?`

	w, err := scanWord(db.QueryRowContext(ctx, query, userID, wordID))
	if err == sql.ErrNoRows {
		return nil, errors.NewWordNotFound(userID, wordID)
	}
	if err != nil {
		return nil, errors.NewStore(err)
	}

	return w, nil
}

// WordExists reports whether a memory record exists for the pair.
func WordExists(ctx context.Context, db *sql.DB, userID, wordID string) (bool, error) {
	query := `SELECT 1 FROM word_states WHERE user_id = ? AND word_id = ? LIMIT 1`

	var one int
	err := db.QueryRowContext(ctx, query, userID, wordID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewStore(err)
	}

	return true, nil
}

// ListWords returns all memory records for a learner.
func ListWords(ctx context.Context, db *sql.DB, userID string) ([]*model.WordState, error) {
	query := `SELECT ` + wordColumns + `
		FROM word_states
		WHERE user_id = ?`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.NewStore(err)
	}
	defer rows.Close()

	var words []*model.WordState
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, errors.NewStore(err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStore(err)
	}

	return words, nil
}

// ListWordsByDifficulty returns all memory records for a learner,
// hardest first.
func ListWordsByDifficulty(ctx context.Context, db *sql.DB, userID string) ([]*model.WordState, error) {
	query := `SELECT ` + wordColumns + `
		FROM word_states
		WHERE user_id = ?
		ORDER BY difficulty DESC`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.NewStore(err)
	}
	defer rows.Close()

	var words []*model.WordState
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, errors.NewStore(err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStore(err)
	}

	return words, nil
}

// NextDueWords returns up to limit records ordered by due time,
// soonest first.
func NextDueWords(ctx context.Context, db *sql.DB, userID string, limit int) ([]*model.WordState, error) {
	query := `SELECT ` + wordColumns + `
		FROM word_states
		WHERE user_id = ?
		ORDER BY next_due_ts ASC
		LIMIT ?`

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, errors.NewStore(err)
	}
	defer rows.Close()

	var words []*model.WordState
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, errors.NewStore(err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStore(err)
	}

	return words, nil
}

// UpsertWord writes a memory record, replacing any existing row.
func UpsertWord(ctx context.Context, db *sql.DB, userID string, w *model.WordState) error {
	quality, err := w.LastQuality.MarshalText()
	if err != nil {
		return errors.NewInternal(err)
	}
	state, err := w.LearnState.MarshalText()
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO word_states (
			user_id, word_id, concept, definition, stability,
			retrievability, difficulty, last_review_ts, next_due_ts,
			interval_days, reps_total, reps_correct, streak_correct,
			lapse_count, avg_rt_ms, last_rt_ms, rt_variance,
			hint_used_count, uncertainty, last_quality, learn_state
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, word_id) DO UPDATE SET
			concept = excluded.concept,
			definition = excluded.definition,
			stability = excluded.stability,
			retrievability = excluded.retrievability,
			difficulty = excluded.difficulty,
			last_review_ts = excluded.last_review_ts,
			next_due_ts = excluded.next_due_ts,
			interval_days = excluded.interval_days,
			reps_total = excluded.reps_total,
			reps_correct = excluded.reps_correct,
			streak_correct = excluded.streak_correct,
			lapse_count = excluded.lapse_count,
			avg_rt_ms = excluded.avg_rt_ms,
			last_rt_ms = excluded.last_rt_ms,
			rt_variance = excluded.rt_variance,
			hint_used_count = excluded.hint_used_count,
			uncertainty = excluded.uncertainty,
			last_quality = excluded.last_quality,
			learn_state = excluded.learn_state
	`

	_, err = db.ExecContext(ctx, query,
		userID, w.WordID, w.Concept, w.Definition, w.Stability,
		w.Retrievability, w.Difficulty, w.LastReviewTS, w.NextDueTS,
		w.IntervalDays, w.RepsTotal, w.RepsCorrect, w.StreakCorrect,
		w.LapseCount, w.AvgRTMS, w.LastRTMS, w.RTVariance,
		w.HintUsedCount, w.Uncertainty, string(quality), string(state),
	)
	if err != nil {
		return errors.NewStore(err)
	}

	return nil
}

// WordStats aggregates word-level statistics for a learner.
type WordStats struct {
	TotalWords    int     `json:"total_words"`
	NewWords      int     `json:"new_words"`
	LearningWords int     `json:"learning_words"`
	MatureWords   int     `json:"mature_words"`
	AvgDifficulty float64 `json:"average_difficulty"`
	AvgStability  float64 `json:"average_stability"`
	AvgAccuracy   float64 `json:"average_accuracy"`
}

// GetWordStats computes aggregate word statistics in a single query.
func GetWordStats(ctx context.Context, db *sql.DB, userID string) (*WordStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN learn_state = 'New' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN learn_state = 'Learning' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN learn_state = 'Mature' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(difficulty), 0),
			COALESCE(AVG(stability), 0),
			COALESCE(AVG(reps_correct * 1.0 / NULLIF(reps_total, 0)), 0)
		FROM word_states
		WHERE user_id = ?
	`

	var s WordStats
	err := db.QueryRowContext(ctx, query, userID).Scan(
		&s.TotalWords, &s.NewWords, &s.LearningWords, &s.MatureWords,
		&s.AvgDifficulty, &s.AvgStability, &s.AvgAccuracy,
	)
	if err != nil {
		return nil, errors.NewStore(err)
	}

	return &s, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanWord.
type scanner interface {
	Scan(dest ...any) error
}

// scanWord scans a single row into a WordState.
func scanWord(row scanner) (*model.WordState, error) {
	var (
		w       model.WordState
		quality string
		state   string
	)

	err := row.Scan(
		&w.WordID, &w.Concept, &w.Definition, &w.Stability,
		&w.Retrievability, &w.Difficulty, &w.LastReviewTS, &w.NextDueTS,
		&w.IntervalDays, &w.RepsTotal, &w.RepsCorrect, &w.StreakCorrect,
		&w.LapseCount, &w.AvgRTMS, &w.LastRTMS, &w.RTVariance,
		&w.HintUsedCount, &w.Uncertainty, &quality, &state,
	)
	if err != nil {
		return nil, err
	}

	if err := w.LastQuality.UnmarshalText([]byte(quality)); err != nil {
		return nil, err
	}
	if err := w.LearnState.UnmarshalText([]byte(state)); err != nil {
		return nil, err
	}

	return &w, nil
}
