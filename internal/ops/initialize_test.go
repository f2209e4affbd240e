package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

func TestInitialize_AddsWords(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	out, err := e.Initialize(ctx, InitializeInput{
		UserID: "u1",
		Vocabulary: []VocabularyItem{
			{Concept: "ephemeral", Definition: "lasting a very short time"},
			{Concept: "laconic", Definition: "using very few words"},
		},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if out.WordsAdded != 2 || out.WordsSkipped != 0 {
		t.Errorf("result = (%d added, %d skipped), want (2, 0)", out.WordsAdded, out.WordsSkipped)
	}

	w, err := db.GetWord(ctx, e.db, "u1", "ephemeral")
	if err != nil {
		t.Fatalf("GetWord failed: %v", err)
	}
	if w.LearnState != model.New {
		t.Errorf("LearnState = %v, want New", w.LearnState)
	}
	if w.Difficulty < 1 || w.Difficulty > 10 {
		t.Errorf("Difficulty = %v, want within [1, 10]", w.Difficulty)
	}
	if w.NextDueTS != e.now().Unix() {
		t.Errorf("NextDueTS = %d, want due immediately", w.NextDueTS)
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	items := []VocabularyItem{
		{Concept: "ephemeral", Definition: "lasting a very short time"},
	}
	if _, err := e.Initialize(ctx, InitializeInput{UserID: "u1", Vocabulary: items}); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}

	out, err := e.Initialize(ctx, InitializeInput{UserID: "u1", Vocabulary: items})
	if err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	if out.WordsAdded != 0 || out.WordsSkipped != 1 {
		t.Errorf("result = (%d added, %d skipped), want (0, 1)", out.WordsAdded, out.WordsSkipped)
	}
}

func TestInitialize_SkipsBlankEntries(t *testing.T) {
	e := newTestEngine(t)

	out, err := e.Initialize(context.Background(), InitializeInput{
		UserID: "u1",
		Vocabulary: []VocabularyItem{
			{Concept: "  ", Definition: "whitespace concept"},
			{Concept: "laconic", Definition: ""},
			{Concept: "valid", Definition: "a usable entry"},
		},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if out.WordsAdded != 1 || out.WordsSkipped != 2 {
		t.Errorf("result = (%d added, %d skipped), want (1, 2)", out.WordsAdded, out.WordsSkipped)
	}
}

func TestInitialize_RequiresUserID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Initialize(context.Background(), InitializeInput{UserID: " "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestInitialize_VocabulariesAreIndependent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	seedVocabulary(t, e, "alice")

	words, err := db.ListWords(ctx, e.db, "bob")
	if err != nil {
		t.Fatalf("ListWords failed: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("bob has %d words, want 0", len(words))
	}
}
