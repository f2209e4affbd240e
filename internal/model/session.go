package model

// SessionLog records one study session. It is created at session
// start, appended to on every response, and becomes immutable once
// finalized and persisted at session end.
type SessionLog struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	StartTS   int64  `json:"start_ts"`
	EndTS     int64  `json:"end_ts"`

	// WordsShown is the ordered list of distinct word ids seen.
	WordsShown         []string `json:"words_shown"`
	NewWordsIntroduced int      `json:"new_words_introduced"`
	ReviewsDone        int      `json:"reviews_done"`

	Accuracy         float64 `json:"accuracy"`
	AvgRTMS          float64 `json:"avg_rt_ms"`
	TotalResponses   int     `json:"total_responses"`
	CorrectResponses int     `json:"correct_responses"`

	// LoadProfile is the per-response difficulty trace.
	LoadProfile []float64 `json:"load_profile"`
	// FatigueTrace is the per-response fatigue trace.
	FatigueTrace []float64 `json:"fatigue_trace"`
}

// Contains reports whether the word id is already in WordsShown.
func (s *SessionLog) Contains(wordID string) bool {
	for _, id := range s.WordsShown {
		if id == wordID {
			return true
		}
	}
	return false
}
