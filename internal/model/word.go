package model

// WordState holds the per-(learner, word) memory record: identity,
// spaced-repetition parameters, scheduling fields, and response-time
// statistics. It is mutated only by the scheduler's updater.
//
// Invariants: Difficulty ∈ [1,10], Retrievability ∈ [0,1],
// Uncertainty ∈ [0.1,1.0], Stability > 0.
type WordState struct {
	WordID     string `json:"word_id"`
	Concept    string `json:"concept"`
	Definition string `json:"definition"`

	// Stability is the number of days until retrievability decays to ~37%.
	Stability float64 `json:"stability"`
	// Retrievability is the recall-probability snapshot taken at the
	// last review (reset to 1.0 after each review).
	Retrievability float64 `json:"retrievability"`
	// Difficulty is on a 1-10 scale, higher is harder.
	Difficulty float64 `json:"difficulty"`

	LastReviewTS int64 `json:"last_review_ts"`
	NextDueTS    int64 `json:"next_due_ts"`
	// IntervalDays is the current review interval in days.
	IntervalDays float64 `json:"interval_days"`

	RepsTotal     int `json:"reps_total"`
	RepsCorrect   int `json:"reps_correct"`
	StreakCorrect int `json:"streak_correct"`
	// LapseCount is the number of times the word was forgotten after
	// being learned.
	LapseCount int `json:"lapse_count"`

	// AvgRTMS is an exponential moving average of response time,
	// initialized to the first observed latency.
	AvgRTMS    float64 `json:"avg_rt_ms"`
	LastRTMS   float64 `json:"last_rt_ms"`
	RTVariance float64 `json:"rt_variance"`

	HintUsedCount int `json:"hint_used_count"`

	// Uncertainty drives exploration; it decays toward a floor of 0.1
	// with every review.
	Uncertainty float64 `json:"uncertainty"`

	LastQuality Quality    `json:"last_quality"`
	LearnState  LearnState `json:"learn_state"`
}

// Default response-time statistics for words that have never been
// reviewed. The classifier grades the first response against these.
const (
	DefaultAvgRTMS    = 5000.0
	DefaultRTVariance = 1000.0
)

// NewWordState creates a word state for a freshly ingested word.
// The word is due immediately and starts in the New learn state.
func NewWordState(wordID, concept, definition string, difficulty float64, dueTS int64) *WordState {
	return &WordState{
		WordID:         wordID,
		Concept:        concept,
		Definition:     definition,
		Stability:      1.0,
		Retrievability: 1.0,
		Difficulty:     difficulty,
		NextDueTS:      dueTS,
		IntervalDays:   1.0,
		AvgRTMS:        DefaultAvgRTMS,
		LastRTMS:       DefaultAvgRTMS,
		RTVariance:     DefaultRTVariance,
		Uncertainty:    1.0,
		LastQuality:    Good,
		LearnState:     New,
	}
}

// Accuracy returns the lifetime correct-answer ratio, or 0 when the
// word has never been reviewed.
func (w *WordState) Accuracy() float64 {
	if w.RepsTotal == 0 {
		return 0
	}
	return float64(w.RepsCorrect) / float64(w.RepsTotal)
}
