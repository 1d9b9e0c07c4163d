package review

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/studynote/studynote/internal/grading"
	"github.com/studynote/studynote/internal/quiz"
)

func completedSession(t *testing.T, qs []quiz.Question, originals map[string]OriginalAnswer, answers map[string]grading.Answer) *Session {
	t.Helper()
	s, err := NewSession("u1", testSettings(), qs, originals)
	if err != nil {
		t.Fatal(err)
	}
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(125 * time.Second)
	s.StartedAt = started
	s.CompletedAt = &completed
	s.Completed = true
	s.ReviewAnswers = answers
	return s
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreFullSession(t *testing.T) {
	qs := []quiz.Question{
		mkMC("q1", 1, "数学"),
		mkMC("q2", 2, "数学"),
		mkTF("q3", "正しい", "英語"),
		mkTF("q4", "間違い", "英語"),
		mkEssay("q5", "数学"),
	}
	originals := map[string]OriginalAnswer{
		"q1": orig("q1", "0", false),
		"q2": orig("q2", "2", true),
		"q3": orig("q3", "間違い", false),
		"q4": orig("q4", "間違い", true),
		"q5": orig("q5", "", false),
	}
	answers := map[string]grading.Answer{
		"q1": grading.Single("1"),    // improved
		"q2": grading.Single("0"),    // regression
		"q3": grading.Single("正しい"),  // improved
		"q4": grading.Single("間違い"),  // still correct
		"q5": grading.Single("要点は…"), // essay: non-empty counts correct, improved
	}
	s := completedSession(t, qs, originals, answers)

	res, err := Score(s)
	if err != nil {
		t.Fatal(err)
	}

	if res.TotalQuestions != 5 || res.CorrectCount != 4 || res.IncorrectCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 5/4/1", res.TotalQuestions, res.CorrectCount, res.IncorrectCount)
	}
	if res.ImprovementCount != 3 {
		t.Fatalf("ImprovementCount = %d, want 3", res.ImprovementCount)
	}
	if !almostEqual(res.AccuracyBefore, 40) || !almostEqual(res.AccuracyAfter, 80) {
		t.Fatalf("accuracy = %v -> %v, want 40 -> 80", res.AccuracyBefore, res.AccuracyAfter)
	}
	if !almostEqual(res.ImprovementRate, 40) {
		t.Fatalf("ImprovementRate = %v, want 40", res.ImprovementRate)
	}
	if res.TimeSpentSec != 125 {
		t.Fatalf("TimeSpentSec = %d, want 125", res.TimeSpentSec)
	}
	if ImprovementGrade(res.ImprovementRate) != GradeS {
		t.Fatalf("grade = %s, want S", ImprovementGrade(res.ImprovementRate))
	}

	// 数学: 3 total, 2 correct (q1, q5) -> 66.7% weak, improved 2 -> strength too.
	// 英語: 2 total, 2 correct -> not weak, improved 1 -> strength.
	wantWeak := []string{"数学"}
	wantStrength := []string{"数学", "英語"}
	if len(res.WeakAreas) != 1 || res.WeakAreas[0] != wantWeak[0] {
		t.Fatalf("WeakAreas = %v, want %v", res.WeakAreas, wantWeak)
	}
	if len(res.StrengthAreas) != 2 || res.StrengthAreas[0] != wantStrength[0] || res.StrengthAreas[1] != wantStrength[1] {
		t.Fatalf("StrengthAreas = %v, want %v", res.StrengthAreas, wantStrength)
	}

	// Per-question flags.
	wantImproved := map[string]bool{"q1": true, "q2": false, "q3": true, "q4": false, "q5": true}
	for _, d := range res.Details {
		if d.Improved != wantImproved[d.Question.ID] {
			t.Errorf("question %s: Improved = %v, want %v", d.Question.ID, d.Improved, wantImproved[d.Question.ID])
		}
	}

	// Determinism: a completed session scores identically every time.
	again, err := Score(s)
	if err != nil {
		t.Fatal(err)
	}
	if again.CorrectCount != res.CorrectCount || again.TimeSpentSec != res.TimeSpentSec ||
		!almostEqual(again.ImprovementRate, res.ImprovementRate) {
		t.Fatal("second Score of the same session differs")
	}
}

func TestScoreUnansweredGradesIncorrect(t *testing.T) {
	qs := []quiz.Question{mkMC("q1", 1), mkEssay("q2")}
	originals := map[string]OriginalAnswer{
		"q1": orig("q1", "1", true),
		"q2": orig("q2", "x", true),
	}
	s := completedSession(t, qs, originals, map[string]grading.Answer{})

	res, err := Score(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.CorrectCount != 0 {
		t.Fatalf("CorrectCount = %d, want 0", res.CorrectCount)
	}
	// Regressions lower the rate but are never counted as improvements.
	if res.ImprovementCount != 0 {
		t.Fatalf("ImprovementCount = %d, want 0", res.ImprovementCount)
	}
	if !almostEqual(res.ImprovementRate, -100) {
		t.Fatalf("ImprovementRate = %v, want -100", res.ImprovementRate)
	}
	if ImprovementGrade(res.ImprovementRate) != GradeD {
		t.Fatalf("grade = %s, want D", ImprovementGrade(res.ImprovementRate))
	}
}

func TestScoreTimeSpentFloors(t *testing.T) {
	qs := []quiz.Question{mkMC("q1", 0)}
	originals := map[string]OriginalAnswer{"q1": orig("q1", "0", true)}
	s := completedSession(t, qs, originals, map[string]grading.Answer{"q1": grading.Single("0")})
	completed := s.StartedAt.Add(90*time.Second + 900*time.Millisecond)
	s.CompletedAt = &completed

	res, err := Score(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.TimeSpentSec != 90 {
		t.Fatalf("TimeSpentSec = %d, want 90", res.TimeSpentSec)
	}
}

func TestScoreMissingCompletionTimestampFallsBackToNow(t *testing.T) {
	qs := []quiz.Question{mkMC("q1", 0)}
	originals := map[string]OriginalAnswer{"q1": orig("q1", "0", true)}
	s := completedSession(t, qs, originals, map[string]grading.Answer{"q1": grading.Single("0")})
	s.CompletedAt = nil

	fixed := s.StartedAt.Add(42 * time.Second)
	defer func(orig func() time.Time) { now = orig }(now)
	now = func() time.Time { return fixed }

	res, err := Score(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.TimeSpentSec != 42 {
		t.Fatalf("TimeSpentSec = %d, want 42", res.TimeSpentSec)
	}
}

func TestScorePreconditions(t *testing.T) {
	if _, err := Score(&Session{}); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("empty session: err = %v, want ErrNoQuestions", err)
	}

	qs := []quiz.Question{mkMC("q1", 0)}
	s, _ := NewSession("u1", testSettings(), qs, map[string]OriginalAnswer{"q1": orig("q1", "0", true)})
	if _, err := Score(s); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("in-progress session: err = %v, want ErrNotCompleted", err)
	}

	s = completedSession(t, qs, map[string]OriginalAnswer{"q1": orig("q1", "0", true)}, nil)
	delete(s.OriginalAnswers, "q1")
	if _, err := Score(s); !errors.Is(err, ErrMissingOriginal) {
		t.Fatalf("missing original: err = %v, want ErrMissingOriginal", err)
	}
}
