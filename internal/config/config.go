package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds application configuration.
type Config struct {
	// ExplorationRate is the epsilon for epsilon-greedy word selection.
	ExplorationRate float64 `json:"exploration_rate,omitempty"`

	// UncertaintyWeight scales the uncertainty factor in priority scoring.
	UncertaintyWeight float64 `json:"uncertainty_weight,omitempty"`

	// SessionWordTarget is the default number of words per session.
	SessionWordTarget int `json:"session_word_target,omitempty"`

	// MatureStabilityDays is the stability threshold (in days) beyond
	// which a word is considered mature.
	MatureStabilityDays float64 `json:"mature_stability_days,omitempty"`

	// LearningStepsMinutes are the learning-step intervals in minutes.
	// The first step seeds stability when a new word graduates.
	LearningStepsMinutes []float64 `json:"learning_steps_minutes,omitempty"`

	// MaxIntervalDays caps the review interval.
	MaxIntervalDays float64 `json:"max_interval_days,omitempty"`

	// DataDir is the directory scanned for vocabulary CSV datasets.
	DataDir string `json:"data_dir,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is
	// locked" errors). 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ExplorationRate:      0.1,
		UncertaintyWeight:    0.2,
		SessionWordTarget:    15,
		MatureStabilityDays:  21,
		LearningStepsMinutes: []float64{1, 10},
		MaxIntervalDays:      36500,
		DataDir:              "data",
	}
}

// Load loads configuration from baseDir/config.json, then applies
// LEXI_* environment overrides. Returns default config if the file
// doesn't exist. The baseDir parameter allows tests to use t.TempDir()
// instead of ~/.lexi.
func Load(baseDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	cfg := Merge(DefaultConfig(), overlay)
	applyEnv(cfg)
	return cfg, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values take
// precedence for non-zero scalars; the learning-steps slice is replaced
// wholesale when set.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.ExplorationRate = overlay.ExplorationRate
	if result.ExplorationRate == 0 {
		result.ExplorationRate = base.ExplorationRate
	}

	result.UncertaintyWeight = overlay.UncertaintyWeight
	if result.UncertaintyWeight == 0 {
		result.UncertaintyWeight = base.UncertaintyWeight
	}

	result.SessionWordTarget = overlay.SessionWordTarget
	if result.SessionWordTarget == 0 {
		result.SessionWordTarget = base.SessionWordTarget
	}

	result.MatureStabilityDays = overlay.MatureStabilityDays
	if result.MatureStabilityDays == 0 {
		result.MatureStabilityDays = base.MatureStabilityDays
	}

	result.LearningStepsMinutes = overlay.LearningStepsMinutes
	if len(result.LearningStepsMinutes) == 0 {
		result.LearningStepsMinutes = base.LearningStepsMinutes
	}

	result.MaxIntervalDays = overlay.MaxIntervalDays
	if result.MaxIntervalDays == 0 {
		result.MaxIntervalDays = base.MaxIntervalDays
	}

	result.DataDir = overlay.DataDir
	if result.DataDir == "" {
		result.DataDir = base.DataDir
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	return result
}

// applyEnv overrides config values from LEXI_* environment variables.
// The cmd layer loads a .env file (godotenv) before Load is called.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LEXI_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LEXI_EXPLORATION_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.ExplorationRate = f
		}
	}
	if v := os.Getenv("LEXI_SESSION_WORD_TARGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionWordTarget = n
		}
	}
	if v := os.Getenv("LEXI_DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DBMaxOpenConns = n
		}
	}
	if v := os.Getenv("LEXI_DB_MAX_IDLE_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DBMaxIdleConns = n
		}
	}
}
