package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hpungsan/lexi/internal/errors"
)

func TestNextWords_OrderedByDueTime(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	out, err := e.NextWords(ctx, NextWordsInput{UserID: "u1", Count: 3})
	if err != nil {
		t.Fatalf("NextWords failed: %v", err)
	}
	if len(out.NextWords) != 3 {
		t.Fatalf("len = %d, want 3", len(out.NextWords))
	}
	for i := 1; i < len(out.NextWords); i++ {
		if out.NextWords[i].DueTS < out.NextWords[i-1].DueTS {
			t.Error("words not ordered by due time")
		}
	}
}

func TestNextWords_OverdueFlag(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	// Freshly initialized words are due at the initialization instant;
	// a day later they are all overdue.
	advanceClock(e, 24*time.Hour)

	out, err := e.NextWords(ctx, NextWordsInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("NextWords failed: %v", err)
	}
	for _, w := range out.NextWords {
		if !w.IsOverdue {
			t.Errorf("word %q should be overdue", w.WordID)
		}
		if w.DaysUntilDue >= 0 {
			t.Errorf("DaysUntilDue = %v for %q, want negative", w.DaysUntilDue, w.WordID)
		}
	}
}

func TestNextWords_DefaultCount(t *testing.T) {
	e := newTestEngine(t)
	seedVocabulary(t, e, "u1")

	out, err := e.NextWords(context.Background(), NextWordsInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("NextWords failed: %v", err)
	}
	// Vocabulary is smaller than the default of 10.
	if len(out.NextWords) != 5 {
		t.Errorf("len = %d, want 5", len(out.NextWords))
	}
}

func TestNextWords_RequiresUserID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.NextWords(context.Background(), NextWordsInput{UserID: ""})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
