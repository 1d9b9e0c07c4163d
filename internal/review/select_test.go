package review

import "testing"

func hist(id string, attempts, correct int, latestCorrect bool, tags ...string) QuestionHistory {
	return QuestionHistory{
		Question: mkMC(id, 0, tags...),
		Attempts: attempts,
		Correct:  correct,
		Latest:   OriginalAnswer{QuestionID: id, Answer: "0", Correct: latestCorrect},
	}
}

func ids(hs []QuestionHistory) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Question.ID)
	}
	return out
}

func TestSelectIncorrectKeepsLatestWrong(t *testing.T) {
	history := []QuestionHistory{
		hist("q1", 2, 1, true),
		hist("q2", 2, 0, false),
		hist("q3", 1, 0, false),
	}
	got := ids(SelectQuestions(history, Settings{TargetMode: TargetIncorrect, QuestionCount: 5}))
	if len(got) != 2 || got[0] != "q2" || got[1] != "q3" {
		t.Fatalf("picked %v, want [q2 q3]", got)
	}
}

func TestSelectLowScoreDefaultsToWeakThreshold(t *testing.T) {
	history := []QuestionHistory{
		hist("q1", 10, 7, true), // 70%: not below default threshold
		hist("q2", 10, 6, true), // 60%: picked
		hist("q3", 3, 3, true),   // 100%
		hist("q4", 4, 1, false), // 25%: picked
	}
	got := ids(SelectQuestions(history, Settings{TargetMode: TargetLowScore, QuestionCount: 5}))
	if len(got) != 2 || got[0] != "q2" || got[1] != "q4" {
		t.Fatalf("picked %v, want [q2 q4]", got)
	}

	// An explicit threshold overrides the default.
	got = ids(SelectQuestions(history, Settings{TargetMode: TargetLowScore, ScoreThreshold: 30, QuestionCount: 5}))
	if len(got) != 1 || got[0] != "q4" {
		t.Fatalf("picked %v with threshold 30, want [q4]", got)
	}
}

func TestSelectCategoryMatchesAnyTag(t *testing.T) {
	history := []QuestionHistory{
		hist("q1", 1, 1, true, "math"),
		hist("q2", 1, 0, false, "physics", "math"),
		hist("q3", 1, 0, false, "biology"),
	}
	st := Settings{TargetMode: TargetCategory, Categories: []string{"math"}, QuestionCount: 5}
	got := ids(SelectQuestions(history, st))
	if len(got) != 2 || got[0] != "q1" || got[1] != "q2" {
		t.Fatalf("picked %v, want [q1 q2]", got)
	}
}

func TestSelectAllTruncatesToCount(t *testing.T) {
	var history []QuestionHistory
	for _, id := range []string{"q1", "q2", "q3", "q4", "q5"} {
		history = append(history, hist(id, 1, 1, true))
	}
	got := ids(SelectQuestions(history, Settings{TargetMode: TargetAll, QuestionCount: 3}))
	if len(got) != 3 || got[0] != "q1" || got[2] != "q3" {
		t.Fatalf("picked %v, want first three in history order", got)
	}
}

func TestSelectNothingMatches(t *testing.T) {
	history := []QuestionHistory{hist("q1", 1, 1, true)}
	if got := SelectQuestions(history, Settings{TargetMode: TargetIncorrect, QuestionCount: 5}); len(got) != 0 {
		t.Fatalf("picked %v, want none", got)
	}
}
