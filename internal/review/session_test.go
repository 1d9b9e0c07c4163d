package review

import (
	"errors"
	"testing"

	"github.com/studynote/studynote/internal/grading"
	"github.com/studynote/studynote/internal/quiz"
)

func mkMC(id string, correct int, tags ...string) quiz.Question {
	return quiz.Question{
		ID:            id,
		Type:          quiz.TypeMultipleChoice,
		Prompt:        "q " + id,
		Choices:       []string{"a", "b", "c", "d"},
		CorrectChoice: correct,
		Tags:          tags,
	}
}

func mkTF(id, correct string, tags ...string) quiz.Question {
	return quiz.Question{
		ID:            id,
		Type:          quiz.TypeTrueFalse,
		Prompt:        "q " + id,
		Options:       []string{"正しい", "間違い"},
		CorrectOption: correct,
		Tags:          tags,
	}
}

func mkEssay(id string, tags ...string) quiz.Question {
	return quiz.Question{ID: id, Type: quiz.TypeEssay, Prompt: "q " + id, Tags: tags}
}

func orig(qID, answer string, correct bool) OriginalAnswer {
	return OriginalAnswer{QuestionID: qID, Answer: answer, Correct: correct}
}

func testSettings() Settings {
	return Settings{TargetMode: TargetAll, QuestionCount: 5, Format: FormatQuiz}
}

func TestNewSessionRequiresQuestions(t *testing.T) {
	if _, err := NewSession("u1", testSettings(), nil, nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
}

func TestNewSessionRequiresOriginals(t *testing.T) {
	qs := []quiz.Question{mkMC("q1", 0), mkMC("q2", 1)}
	originals := map[string]OriginalAnswer{"q1": orig("q1", "0", true)}
	if _, err := NewSession("u1", testSettings(), qs, originals); !errors.Is(err, ErrMissingOriginal) {
		t.Fatalf("err = %v, want ErrMissingOriginal", err)
	}
}

func TestSessionAdvanceAndComplete(t *testing.T) {
	qs := []quiz.Question{mkMC("q1", 1), mkMC("q2", 2), mkMC("q3", 0)}
	originals := map[string]OriginalAnswer{
		"q1": orig("q1", "0", false),
		"q2": orig("q2", "2", true),
		"q3": orig("q3", "3", false),
	}
	s, err := NewSession("u1", testSettings(), qs, originals)
	if err != nil {
		t.Fatal(err)
	}

	if s.Current().ID != "q1" {
		t.Fatalf("current = %s, want q1", s.Current().ID)
	}
	if err := s.Answer(grading.Single("1")); err != nil {
		t.Fatal(err)
	}
	if s.CurrentIndex != 1 || s.Completed {
		t.Fatalf("after first answer: index=%d completed=%v", s.CurrentIndex, s.Completed)
	}
	if err := s.Answer(grading.Single("2")); err != nil {
		t.Fatal(err)
	}
	if err := s.Answer(grading.Single("1")); err != nil {
		t.Fatal(err)
	}
	if !s.Completed || s.CompletedAt == nil {
		t.Fatalf("session not completed after last answer")
	}
	if err := s.Answer(grading.Single("0")); !errors.Is(err, ErrCompleted) {
		t.Fatalf("answer after completion: err = %v, want ErrCompleted", err)
	}
}

func TestSessionImprovementCounter(t *testing.T) {
	qs := []quiz.Question{mkMC("q1", 1), mkMC("q2", 2), mkEssay("q3")}
	originals := map[string]OriginalAnswer{
		"q1": orig("q1", "0", false), // wrong before
		"q2": orig("q2", "2", true),  // right before
		"q3": orig("q3", "", false),
	}
	s, _ := NewSession("u1", testSettings(), qs, originals)

	_ = s.Answer(grading.Single("1")) // wrong -> right: counts
	if s.ImprovementCount != 1 {
		t.Fatalf("ImprovementCount = %d, want 1", s.ImprovementCount)
	}
	_ = s.Answer(grading.Single("0")) // right -> wrong: no change
	if s.ImprovementCount != 1 {
		t.Fatalf("ImprovementCount = %d after regression, want 1", s.ImprovementCount)
	}
	_ = s.Answer(grading.Single("some essay text")) // essay never counts mid-session
	if s.ImprovementCount != 1 {
		t.Fatalf("ImprovementCount = %d after essay, want 1", s.ImprovementCount)
	}
}

func TestSessionBackRestoresAnswer(t *testing.T) {
	qs := []quiz.Question{mkMC("q1", 1), mkMC("q2", 2), mkMC("q3", 3)}
	originals := map[string]OriginalAnswer{
		"q1": orig("q1", "0", false),
		"q2": orig("q2", "0", false),
		"q3": orig("q3", "0", false),
	}
	s, _ := NewSession("u1", testSettings(), qs, originals)

	if _, ok := s.Back(); ok {
		t.Fatal("Back on first question should restore nothing")
	}
	if s.CurrentIndex != 0 {
		t.Fatalf("index = %d after no-op Back, want 0", s.CurrentIndex)
	}

	_ = s.Answer(grading.Single("1"))
	prev, ok := s.Back()
	if !ok || prev.First() != "1" {
		t.Fatalf("Back = (%q, %v), want (1, true)", prev.First(), ok)
	}

	// Re-answering the revisited question overwrites without recounting.
	_ = s.Answer(grading.Single("1"))
	if s.ImprovementCount != 1 {
		t.Fatalf("ImprovementCount = %d after re-answer, want 1", s.ImprovementCount)
	}
	if s.CurrentIndex != 1 {
		t.Fatalf("index = %d after re-answer, want 1", s.CurrentIndex)
	}
}
