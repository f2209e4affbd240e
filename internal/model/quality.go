package model

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Quality represents the graded quality of a single response.
type Quality int

const (
	Fail Quality = iota // Wrong answer.
	Hard                // Correct but struggled (slow, hesitant).
	Good                // Correct with normal effort.
	Easy                // Correct and fast.
)

var (
	qualityNames  = [...]string{Fail: "Fail", Hard: "Hard", Good: "Good", Easy: "Easy"}
	qualityByName = map[string]Quality{
		"Fail": Fail,
		"Hard": Hard,
		"Good": Good,
		"Easy": Easy,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Quality(0)
	_ json.Marshaler           = Quality(0)
	_ json.Unmarshaler         = (*Quality)(nil)
	_ encoding.TextMarshaler   = Quality(0)
	_ encoding.TextUnmarshaler = (*Quality)(nil)
)

// IsValid reports whether q is a valid quality (Fail through Easy).
func (q Quality) IsValid() bool {
	return q >= Fail && q <= Easy
}

// String returns the name of the quality ("Fail", "Hard", "Good", "Easy").
// For invalid values it returns "Quality(n)".
func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// Downgrade returns the quality one level lower, floored at Fail.
func (q Quality) Downgrade() Quality {
	if q <= Fail {
		return Fail
	}
	return q - 1
}

// Upgrade returns the quality one level higher, capped at Easy.
func (q Quality) Upgrade() Quality {
	if q >= Easy {
		return Easy
	}
	return q + 1
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, fmt.Errorf("lexi: invalid quality: %d", int(q))
	}
	return []byte(qualityNames[q]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (q *Quality) UnmarshalText(text []byte) error {
	v, ok := qualityByName[string(text)]
	if !ok {
		return fmt.Errorf("lexi: invalid quality: %q", text)
	}
	*q = v
	return nil
}

// MarshalJSON implements json.Marshaler. Quality serializes as a JSON string.
func (q Quality) MarshalJSON() ([]byte, error) {
	text, err := q.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (q *Quality) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("lexi: invalid quality: %s", data)
	}
	return q.UnmarshalText([]byte(str))
}
