package model

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// LearnState represents the learning stage of a word.
// A word starts New and moves monotonically New → Learning → Mature.
type LearnState int

const (
	New      LearnState = iota + 1 // Never answered correctly.
	Learning                       // In the learning phase.
	Mature                         // Well learned (stability beyond the mature threshold).
)

var (
	learnStateNames  = [...]string{New: "New", Learning: "Learning", Mature: "Mature"}
	learnStateByName = map[string]LearnState{
		"New":      New,
		"Learning": Learning,
		"Mature":   Mature,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = LearnState(0)
	_ json.Marshaler           = LearnState(0)
	_ json.Unmarshaler         = (*LearnState)(nil)
	_ encoding.TextMarshaler   = LearnState(0)
	_ encoding.TextUnmarshaler = (*LearnState)(nil)
)

// IsValid reports whether s is a valid learn state.
func (s LearnState) IsValid() bool {
	return s >= New && s <= Mature
}

// String returns the name of the state ("New", "Learning", "Mature").
// For invalid values it returns "LearnState(n)".
func (s LearnState) String() string {
	if s.IsValid() {
		return learnStateNames[s]
	}
	return fmt.Sprintf("LearnState(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s LearnState) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("lexi: invalid learn state: %d", int(s))
	}
	return []byte(learnStateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *LearnState) UnmarshalText(text []byte) error {
	v, ok := learnStateByName[string(text)]
	if !ok {
		return fmt.Errorf("lexi: invalid learn state: %q", text)
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. LearnState serializes as a JSON string.
func (s LearnState) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *LearnState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("lexi: invalid learn state: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
