package model

// UserState holds learner-level state and preferences.
// It is owned by the state store; the engine mutates it at session
// boundaries and through ability updates, then writes it back.
type UserState struct {
	UserID string `json:"user_id"`

	// AbilityTheta is the IRT-style ability estimate. Expected range is
	// roughly [-3, +3]; ability+5 maps onto the 1-10 difficulty scale.
	AbilityTheta float64 `json:"ability_theta"`

	DailyStreak   int `json:"daily_streak"`
	SessionsCount int `json:"sessions_count"`

	// FatigueIndex is session-local cognitive load in [0, 1].
	// It resets to 0 when a session ends.
	FatigueIndex float64 `json:"fatigue_index"`

	TargetWordsTotal       int `json:"target_words_total"`
	WordsMastered          int `json:"words_mastered"`
	NewWordQuotaPerSession int `json:"new_word_quota_per_session"`

	// PreferredSessionLength is in items per session.
	PreferredSessionLength int `json:"preferred_session_length"`

	LastSessionTS int64 `json:"last_session_ts"`

	// TotalStudyTime is cumulative study time in minutes.
	TotalStudyTime float64 `json:"total_study_time"`

	// AvgSessionAccuracy is an exponential moving average of per-session
	// accuracy (smoothing 0.1).
	AvgSessionAccuracy float64 `json:"avg_session_accuracy"`
}

// NewUserState creates a user state with defaults for a first-seen learner.
func NewUserState(userID string) *UserState {
	return &UserState{
		UserID:                 userID,
		TargetWordsTotal:       1000,
		NewWordQuotaPerSession: 5,
		PreferredSessionLength: 15,
	}
}
