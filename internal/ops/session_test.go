package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hpungsan/lexi/internal/db"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/model"
)

func TestStartSession_SelectsWords(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	out, err := e.StartSession(ctx, StartSessionInput{UserID: "u1", SessionLength: 3})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if out.SessionID == "" {
		t.Error("SessionID should not be empty")
	}
	if len(out.Words) != 3 {
		t.Errorf("len(Words) = %d, want 3", len(out.Words))
	}
	// A fresh learner has ability 0, which maps to difficulty 5.
	if out.RecommendedDifficulty != 5.0 {
		t.Errorf("RecommendedDifficulty = %v, want 5.0", out.RecommendedDifficulty)
	}
}

func TestStartSession_EmptyVocabulary(t *testing.T) {
	e := newTestEngine(t)

	out, err := e.StartSession(context.Background(), StartSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if len(out.Words) != 0 {
		t.Errorf("len(Words) = %d, want 0 for empty vocabulary", len(out.Words))
	}
}

func TestStartSession_SmallVocabulary(t *testing.T) {
	e := newTestEngine(t)
	seedVocabulary(t, e, "u1") // 5 words

	out, err := e.StartSession(context.Background(), StartSessionInput{
		UserID:        "u1",
		SessionLength: 50,
	})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if len(out.Words) != 5 {
		t.Errorf("len(Words) = %d, want 5 (entire vocabulary)", len(out.Words))
	}
}

func TestStartSession_RejectsSecondStart(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("first StartSession failed: %v", err)
	}

	_, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"})
	if !errors.Is(err, errors.ErrSessionActive) {
		t.Errorf("err = %v, want SESSION_ACTIVE", err)
	}
}

func TestStartSession_LearnersAreIndependent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "alice")
	seedVocabulary(t, e, "bob")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "alice"}); err != nil {
		t.Fatalf("alice StartSession failed: %v", err)
	}
	// Alice's open session must not block Bob.
	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "bob"}); err != nil {
		t.Fatalf("bob StartSession failed: %v", err)
	}
}

func TestRecordResponse_RequiresActiveSession(t *testing.T) {
	e := newTestEngine(t)
	seedVocabulary(t, e, "u1")

	_, err := e.RecordResponse(context.Background(), RecordResponseInput{
		UserID:         "u1",
		WordID:         "ephemeral",
		IsCorrect:      true,
		ResponseTimeMS: 3000,
	})
	if !errors.Is(err, errors.ErrNoActiveSession) {
		t.Errorf("err = %v, want NO_ACTIVE_SESSION", err)
	}
}

func TestRecordResponse_UnknownWord(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	_, err := e.RecordResponse(ctx, RecordResponseInput{
		UserID:         "u1",
		WordID:         "nonexistent",
		IsCorrect:      true,
		ResponseTimeMS: 3000,
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestRecordResponse_ValidatesInput(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RecordResponse(context.Background(), RecordResponseInput{
		UserID:         "u1",
		WordID:         "w1",
		ResponseTimeMS: -5,
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST for negative response time", err)
	}
}

func TestRecordResponse_AdvancesWordState(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	out, err := e.RecordResponse(ctx, RecordResponseInput{
		UserID:         "u1",
		WordID:         "ephemeral",
		IsCorrect:      true,
		ResponseTimeMS: 3000,
	})
	if err != nil {
		t.Fatalf("RecordResponse failed: %v", err)
	}

	// A fast correct answer on a fresh word grades Easy and graduates
	// the word into the learning phase.
	if out.Quality != model.Easy {
		t.Errorf("Quality = %v, want Easy", out.Quality)
	}
	if out.LearnState != model.Learning {
		t.Errorf("LearnState = %v, want Learning", out.LearnState)
	}
	if out.NextDueTS <= e.now().Unix() {
		t.Errorf("NextDueTS = %d, want in the future", out.NextDueTS)
	}

	// The change is persisted.
	w, err := db.GetWord(ctx, e.db, "u1", "ephemeral")
	if err != nil {
		t.Fatalf("GetWord failed: %v", err)
	}
	if w.RepsTotal != 1 || w.RepsCorrect != 1 {
		t.Errorf("persisted counters = (%d, %d), want (1, 1)", w.RepsTotal, w.RepsCorrect)
	}
}

func TestRecordResponse_FatigueRises(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	first, err := e.RecordResponse(ctx, RecordResponseInput{
		UserID: "u1", WordID: "ephemeral", IsCorrect: true, ResponseTimeMS: 3000,
	})
	if err != nil {
		t.Fatalf("RecordResponse failed: %v", err)
	}
	if first.FatigueIndex <= 0 {
		t.Errorf("FatigueIndex = %v, want above 0 after a response", first.FatigueIndex)
	}

	second, err := e.RecordResponse(ctx, RecordResponseInput{
		UserID: "u1", WordID: "laconic", IsCorrect: false, ResponseTimeMS: 9000,
	})
	if err != nil {
		t.Fatalf("RecordResponse failed: %v", err)
	}
	if second.FatigueIndex <= first.FatigueIndex {
		t.Errorf("FatigueIndex = %v, want above %v (errors add fatigue)",
			second.FatigueIndex, first.FatigueIndex)
	}
}

func TestEndSession_RequiresActiveSession(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.EndSession(context.Background(), EndSessionInput{UserID: "u1"})
	if !errors.Is(err, errors.ErrNoActiveSession) {
		t.Errorf("err = %v, want NO_ACTIVE_SESSION", err)
	}
}

func TestEndSession_FinalizesAndPersists(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	start, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	responses := []RecordResponseInput{
		{UserID: "u1", WordID: "ephemeral", IsCorrect: true, ResponseTimeMS: 3000},
		{UserID: "u1", WordID: "laconic", IsCorrect: true, ResponseTimeMS: 4000},
		{UserID: "u1", WordID: "pragmatic", IsCorrect: false, ResponseTimeMS: 9000},
		{UserID: "u1", WordID: "ubiquitous", IsCorrect: true, ResponseTimeMS: 5000},
	}
	for _, r := range responses {
		if _, err := e.RecordResponse(ctx, r); err != nil {
			t.Fatalf("RecordResponse(%s) failed: %v", r.WordID, err)
		}
	}

	advanceClock(e, 10*time.Minute)

	out, err := e.EndSession(ctx, EndSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	if out.SessionID != start.SessionID {
		t.Errorf("SessionID = %q, want %q", out.SessionID, start.SessionID)
	}
	if out.Accuracy != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", out.Accuracy)
	}
	if out.TotalResponses != 4 {
		t.Errorf("TotalResponses = %d, want 4", out.TotalResponses)
	}
	if out.DurationMinutes != 10 {
		t.Errorf("DurationMinutes = %v, want 10", out.DurationMinutes)
	}

	// A fresh learner starts at ability 0, so the delta is the final
	// estimate itself.
	if out.AbilityDelta != out.AbilityTheta {
		t.Errorf("AbilityDelta = %v, want %v (baseline was 0)", out.AbilityDelta, out.AbilityTheta)
	}

	user, err := db.GetUser(ctx, e.db, "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.SessionsCount != 1 {
		t.Errorf("SessionsCount = %d, want 1", user.SessionsCount)
	}
	if user.FatigueIndex != 0 {
		t.Errorf("FatigueIndex = %v, want reset to 0", user.FatigueIndex)
	}
	if user.TotalStudyTime != 10 {
		t.Errorf("TotalStudyTime = %v, want 10", user.TotalStudyTime)
	}

	logs, err := db.RecentSessionLogs(ctx, e.db, "u1", 5)
	if err != nil {
		t.Fatalf("RecentSessionLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("len(logs) = %d, want 1", len(logs))
	}
	if logs[0].NewWordsIntroduced != 4 {
		t.Errorf("NewWordsIntroduced = %d, want 4 (all words were new)", logs[0].NewWordsIntroduced)
	}
	if len(logs[0].FatigueTrace) != 4 {
		t.Errorf("len(FatigueTrace) = %d, want 4", len(logs[0].FatigueTrace))
	}
}

func TestEndSession_PerfectSessionRaisesAbility(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	for _, id := range []string{"ephemeral", "laconic", "pragmatic"} {
		if _, err := e.RecordResponse(ctx, RecordResponseInput{
			UserID: "u1", WordID: id, IsCorrect: true, ResponseTimeMS: 4000,
		}); err != nil {
			t.Fatalf("RecordResponse(%s) failed: %v", id, err)
		}
	}

	out, err := e.EndSession(ctx, EndSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	// Observed accuracy 1.0 always exceeds the logistic expectation.
	if out.AbilityDelta <= 0 {
		t.Errorf("AbilityDelta = %v, want positive after a perfect session", out.AbilityDelta)
	}
}

func TestEndSession_AllowsRestart(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if _, err := e.EndSession(ctx, EndSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Errorf("restart after end failed: %v", err)
	}
}

func TestEndSession_EmptySession(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	out, err := e.EndSession(ctx, EndSessionInput{UserID: "u1"})
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if out.Accuracy != 0 {
		t.Errorf("Accuracy = %v, want 0 with no responses", out.Accuracy)
	}
	if out.AbilityDelta != 0 {
		t.Errorf("AbilityDelta = %v, want 0 with no responses", out.AbilityDelta)
	}
}

func TestEndSession_DailyStreak(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	runSession := func() {
		if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
			t.Fatalf("StartSession failed: %v", err)
		}
		if _, err := e.EndSession(ctx, EndSessionInput{UserID: "u1"}); err != nil {
			t.Fatalf("EndSession failed: %v", err)
		}
	}

	streak := func() int {
		user, err := db.GetUser(ctx, e.db, "u1")
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		return user.DailyStreak
	}

	runSession()
	if got := streak(); got != 1 {
		t.Errorf("streak = %d after first session, want 1", got)
	}

	// Same day: streak holds.
	advanceClock(e, time.Hour)
	runSession()
	if got := streak(); got != 1 {
		t.Errorf("streak = %d after same-day session, want 1", got)
	}

	// Next day: streak extends.
	advanceClock(e, 24*time.Hour)
	runSession()
	if got := streak(); got != 2 {
		t.Errorf("streak = %d after next-day session, want 2", got)
	}

	// Long gap: streak restarts.
	advanceClock(e, 72*time.Hour)
	runSession()
	if got := streak(); got != 1 {
		t.Errorf("streak = %d after a gap, want 1", got)
	}
}

func TestRepeatedWordCountsOnceInShown(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	seedVocabulary(t, e, "u1")

	if _, err := e.StartSession(ctx, StartSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := e.RecordResponse(ctx, RecordResponseInput{
			UserID: "u1", WordID: "ephemeral", IsCorrect: true, ResponseTimeMS: 3000,
		}); err != nil {
			t.Fatalf("RecordResponse failed: %v", err)
		}
	}

	if _, err := e.EndSession(ctx, EndSessionInput{UserID: "u1"}); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	logs, err := db.RecentSessionLogs(ctx, e.db, "u1", 1)
	if err != nil {
		t.Fatalf("RecentSessionLogs failed: %v", err)
	}
	if len(logs[0].WordsShown) != 1 {
		t.Errorf("len(WordsShown) = %d, want 1 (deduplicated)", len(logs[0].WordsShown))
	}
	if logs[0].TotalResponses != 3 {
		t.Errorf("TotalResponses = %d, want 3", logs[0].TotalResponses)
	}
}
