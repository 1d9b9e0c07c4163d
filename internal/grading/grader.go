package grading

import (
	"strconv"
	"strings"
)

// Q is a minimal view of a question, enough to grade a response.
// quiz.Question converts into it via GradingView.
type Q struct {
	Type          string
	CorrectChoice int    // multiple-choice: index into the choice list
	CorrectOption string // true-false: one of the two option strings
}

// Grade decides whether a submitted answer is correct for q. It never fails:
// malformed input (non-numeric choice index, unexpected shape, unknown type)
// grades as incorrect so one bad record cannot abort scoring of the rest.
func Grade(q Q, a Answer) bool {
	switch q.Type {
	case "multiple-choice":
		idx, err := strconv.Atoi(strings.TrimSpace(a.First()))
		if err != nil {
			return false
		}
		return idx == q.CorrectChoice
	case "true-false":
		return a.First() == q.CorrectOption
	case "essay":
		// Essays are self-assessed by the learner; the system only checks
		// that something was written. The model answer is never compared.
		return strings.TrimSpace(a.Joined()) != ""
	default:
		return false
	}
}
