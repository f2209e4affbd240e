package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

// InsertSessionLog stores a finalized session log. Session logs are
// append-only; there is no update path.
func InsertSessionLog(ctx context.Context, db *sql.DB, s *model.SessionLog) error {
	wordsJSON, err := marshalJSONColumn(s.WordsShown)
	if err != nil {
		return errors.NewInternal(err)
	}
	loadJSON, err := marshalJSONColumn(s.LoadProfile)
	if err != nil {
		return errors.NewInternal(err)
	}
	fatigueJSON, err := marshalJSONColumn(s.FatigueTrace)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO session_logs (
			session_id, user_id, start_ts, end_ts, words_shown_json,
			new_words_introduced, reviews_done, accuracy, avg_rt_ms,
			total_responses, correct_responses, load_profile_json,
			fatigue_trace_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.ExecContext(ctx, query,
		s.SessionID, s.UserID, s.StartTS, s.EndTS, wordsJSON,
		s.NewWordsIntroduced, s.ReviewsDone, s.Accuracy, s.AvgRTMS,
		s.TotalResponses, s.CorrectResponses, loadJSON, fatigueJSON,
	)
	if err != nil {
		return errors.NewStore(err)
	}

	return nil
}

// RecentSessionLogs returns the limit most recent session logs for a
// learner, newest first.
func RecentSessionLogs(ctx context.Context, db *sql.DB, userID string, limit int) ([]*model.SessionLog, error) {
	query := `
		SELECT session_id, user_id, start_ts, end_ts, words_shown_json,
			new_words_introduced, reviews_done, accuracy, avg_rt_ms,
			total_responses, correct_responses, load_profile_json,
			fatigue_trace_json
		FROM session_logs
		WHERE user_id = ?
		ORDER BY start_ts DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, errors.NewStore(err)
	}
	defer rows.Close()

	var logs []*model.SessionLog
	for rows.Next() {
		var (
			s           model.SessionLog
			wordsJSON   sql.NullString
			loadJSON    sql.NullString
			fatigueJSON sql.NullString
		)
		err := rows.Scan(
			&s.SessionID, &s.UserID, &s.StartTS, &s.EndTS, &wordsJSON,
			&s.NewWordsIntroduced, &s.ReviewsDone, &s.Accuracy, &s.AvgRTMS,
			&s.TotalResponses, &s.CorrectResponses, &loadJSON, &fatigueJSON,
		)
		if err != nil {
			return nil, errors.NewStore(err)
		}

		if err := unmarshalJSONColumn(wordsJSON, &s.WordsShown); err != nil {
			return nil, errors.NewInternal(err)
		}
		if err := unmarshalJSONColumn(loadJSON, &s.LoadProfile); err != nil {
			return nil, errors.NewInternal(err)
		}
		if err := unmarshalJSONColumn(fatigueJSON, &s.FatigueTrace); err != nil {
			return nil, errors.NewInternal(err)
		}

		logs = append(logs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStore(err)
	}

	return logs, nil
}

// ResetUser deletes all three record kinds for a learner in one
// transaction.
func ResetUser(ctx context.Context, db *sql.DB, userID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStore(err)
	}
	defer tx.Rollback()

	for _, query := range []string{
		`DELETE FROM user_states WHERE user_id = ?`,
		`DELETE FROM word_states WHERE user_id = ?`,
		`DELETE FROM session_logs WHERE user_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, query, userID); err != nil {
			return errors.NewStore(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStore(err)
	}

	return nil
}

// marshalJSONColumn serializes a slice for a nullable JSON text column.
// Empty slices store as NULL.
func marshalJSONColumn(v any) (sql.NullString, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	if string(data) == "null" || string(data) == "[]" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalJSONColumn parses a nullable JSON text column into dest.
// NULL leaves dest untouched.
func unmarshalJSONColumn(ns sql.NullString, dest any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), dest)
}
