package grading_test

import (
	"encoding/json"
	"testing"

	"github.com/studynote/studynote/internal/grading"
)

func mcQ() grading.Q {
	return grading.Q{Type: "multiple-choice", CorrectChoice: 1}
}

func tfQ() grading.Q {
	return grading.Q{Type: "true-false", CorrectOption: "正しい"}
}

func TestGradeMultipleChoice(t *testing.T) {
	q := mcQ()
	cases := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"0", false},
		{"3", false},
		{"99", false},
		{"banana", false},
		{"", false},
		{" 1 ", true},
	}
	for _, c := range cases {
		if got := grading.Grade(q, grading.Single(c.in)); got != c.want {
			t.Errorf("Grade(mc, %q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestGradeTrueFalse(t *testing.T) {
	q := tfQ()
	if !grading.Grade(q, grading.Single("正しい")) {
		t.Errorf("exact option match should grade correct")
	}
	if grading.Grade(q, grading.Single("間違い")) {
		t.Errorf("wrong option should grade incorrect")
	}
	if grading.Grade(q, grading.Single("")) {
		t.Errorf("empty submission should grade incorrect")
	}
}

func TestGradeEssay(t *testing.T) {
	q := grading.Q{Type: "essay"}
	if grading.Grade(q, grading.Single("  ")) {
		t.Errorf("whitespace-only essay should grade incorrect")
	}
	if !grading.Grade(q, grading.Single("some answer")) {
		t.Errorf("non-empty essay should grade correct regardless of content")
	}
}

func TestGradeMultiValueArtifact(t *testing.T) {
	// Multi-select widgets sometimes submit a list; mc/tf use the first
	// element, essays join every element.
	if !grading.Grade(mcQ(), grading.Multiple([]string{"1", "2"})) {
		t.Errorf("first element of list should be graded for multiple-choice")
	}
	if grading.Grade(tfQ(), grading.Multiple(nil)) {
		t.Errorf("empty list should grade incorrect")
	}
	if !grading.Grade(grading.Q{Type: "essay"}, grading.Multiple([]string{"", "part"})) {
		t.Errorf("any non-empty list element should make an essay correct")
	}
}

func TestGradeUnknownType(t *testing.T) {
	if grading.Grade(grading.Q{Type: "matching"}, grading.Single("whatever")) {
		t.Errorf("unknown question type should grade incorrect, not fail")
	}
}

func TestAnswerJSONRoundTrip(t *testing.T) {
	var a grading.Answer
	if err := json.Unmarshal([]byte(`"1"`), &a); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if a.First() != "1" {
		t.Fatalf("First() = %q, want 1", a.First())
	}
	if err := json.Unmarshal([]byte(`["x","y"]`), &a); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if a.First() != "x" || a.Joined() != "x y" {
		t.Fatalf("got First=%q Joined=%q", a.First(), a.Joined())
	}
	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `["x","y"]` {
		t.Fatalf("marshal kept wrong shape: %s", out)
	}
}
