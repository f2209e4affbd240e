package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/lexi/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/lexi.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.lexi.
func Init(baseDir string) (*sql.DB, error) {
	// Create base directory with restricted permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	// Open database with pragmas in connection string (applies to all connections)
	dbPath := filepath.Join(baseDir, "lexi.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify WAL mode is active
	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	// Run migrations (this creates the file if it doesn't exist)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
// Call after Init if you need to tune pool behavior for contention.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS user_states (
		  user_id                    TEXT PRIMARY KEY,
		  ability_theta              REAL NOT NULL,
		  daily_streak               INTEGER NOT NULL,
		  sessions_count             INTEGER NOT NULL,
		  fatigue_index              REAL NOT NULL,
		  target_words_total         INTEGER NOT NULL,
		  words_mastered             INTEGER NOT NULL,
		  new_word_quota_per_session INTEGER NOT NULL,
		  preferred_session_length   INTEGER NOT NULL,
		  last_session_ts            INTEGER NOT NULL,
		  total_study_time           REAL NOT NULL,
		  avg_session_accuracy       REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS word_states (
		  user_id         TEXT NOT NULL,
		  word_id         TEXT NOT NULL,
		  concept         TEXT NOT NULL,
		  definition      TEXT NOT NULL,
		  stability       REAL NOT NULL,
		  retrievability  REAL NOT NULL,
		  difficulty      REAL NOT NULL,
		  last_review_ts  INTEGER NOT NULL,
		  next_due_ts     INTEGER NOT NULL,
		  interval_days   REAL NOT NULL,
		  reps_total      INTEGER NOT NULL,
		  reps_correct    INTEGER NOT NULL,
		  streak_correct  INTEGER NOT NULL,
		  lapse_count     INTEGER NOT NULL,
		  avg_rt_ms       REAL NOT NULL,
		  last_rt_ms      REAL NOT NULL,
		  rt_variance     REAL NOT NULL,
		  hint_used_count INTEGER NOT NULL,
		  uncertainty     REAL NOT NULL,
		  last_quality    TEXT NOT NULL,
		  learn_state     TEXT NOT NULL,
		  PRIMARY KEY (user_id, word_id)
		);

		CREATE INDEX IF NOT EXISTS idx_word_states_user_due
		ON word_states(user_id, next_due_ts);

		CREATE TABLE IF NOT EXISTS session_logs (
		  session_id           TEXT PRIMARY KEY,
		  user_id              TEXT NOT NULL,
		  start_ts             INTEGER NOT NULL,
		  end_ts               INTEGER NOT NULL,
		  words_shown_json     TEXT,
		  new_words_introduced INTEGER NOT NULL,
		  reviews_done         INTEGER NOT NULL,
		  accuracy             REAL NOT NULL,
		  avg_rt_ms            REAL NOT NULL,
		  total_responses      INTEGER NOT NULL,
		  correct_responses    INTEGER NOT NULL,
		  load_profile_json    TEXT,
		  fatigue_trace_json   TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_session_logs_user_start
		ON session_logs(user_id, start_ts DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
