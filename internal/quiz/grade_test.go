package quiz

import (
	"testing"

	"github.com/studynote/studynote/internal/grading"
)

func TestGradeSubmission(t *testing.T) {
	questions := []Question{
		{ID: "q1", Type: TypeMultipleChoice, Choices: []string{"a", "b", "c"}, CorrectChoice: 2},
		{ID: "q2", Type: TypeTrueFalse, Options: []string{"正しい", "間違い"}, CorrectOption: "正しい"},
		{ID: "q3", Type: TypeEssay},
		{ID: "q4", Type: TypeMultipleChoice, Choices: []string{"a", "b"}, CorrectChoice: 0},
	}
	answers := map[string]grading.Answer{
		"q1": grading.Single("2"),
		"q2": grading.Single("間違い"),
		"q3": grading.Single("筋の通った答え"),
		// q4 unanswered
	}
	timeSpent := map[string]int{"q1": 12, "q2": 5, "q3": 40}

	graded, score := GradeSubmission(questions, answers, timeSpent)

	if len(graded) != 4 {
		t.Fatalf("graded %d answers, want 4", len(graded))
	}
	want := map[string]bool{"q1": true, "q2": false, "q3": true, "q4": false}
	for _, ua := range graded {
		if ua.Correct != want[ua.QuestionID] {
			t.Errorf("%s: Correct = %v, want %v", ua.QuestionID, ua.Correct, want[ua.QuestionID])
		}
	}
	if score != 50 {
		t.Fatalf("score = %v, want 50", score)
	}
	if graded[0].TimeSpentSec != 12 || graded[3].TimeSpentSec != 0 {
		t.Fatalf("time spent not carried through: %+v", graded)
	}
}

func TestGradeSubmissionEmpty(t *testing.T) {
	graded, score := GradeSubmission(nil, nil, nil)
	if graded != nil || score != 0 {
		t.Fatalf("got %v / %v, want nil / 0", graded, score)
	}
}

func TestQuestionValidate(t *testing.T) {
	cases := []struct {
		name string
		q    Question
		ok   bool
	}{
		{"mc valid", Question{ID: "a", Type: TypeMultipleChoice, Choices: []string{"x", "y"}, CorrectChoice: 1}, true},
		{"mc no choices", Question{ID: "a", Type: TypeMultipleChoice}, false},
		{"mc key out of range", Question{ID: "a", Type: TypeMultipleChoice, Choices: []string{"x"}, CorrectChoice: 3}, false},
		{"tf valid", Question{ID: "a", Type: TypeTrueFalse, Options: []string{"t", "f"}, CorrectOption: "f"}, true},
		{"tf one option", Question{ID: "a", Type: TypeTrueFalse, Options: []string{"t"}, CorrectOption: "t"}, false},
		{"tf key not an option", Question{ID: "a", Type: TypeTrueFalse, Options: []string{"t", "f"}, CorrectOption: "x"}, false},
		{"essay", Question{ID: "a", Type: TypeEssay}, true},
		{"unknown type", Question{ID: "a", Type: "short-answer"}, false},
	}
	for _, c := range cases {
		err := c.q.Validate()
		if (err == nil) != c.ok {
			t.Errorf("%s: err = %v, want ok=%v", c.name, err, c.ok)
		}
	}
}

func TestStripKeys(t *testing.T) {
	q := Question{
		ID: "a", Type: TypeMultipleChoice,
		Choices: []string{"x", "y"}, CorrectChoice: 1,
		ModelAnswer: "m", Explanation: "because",
	}
	s := q.StripKeys()
	if s.CorrectChoice != 0 || s.ModelAnswer != "" || s.Explanation != "" {
		t.Fatalf("keys not stripped: %+v", s)
	}
	if q.CorrectChoice != 1 {
		t.Fatal("StripKeys mutated the receiver")
	}
}
