package review

import (
	"fmt"
	"time"

	"github.com/studynote/studynote/internal/grading"
	"github.com/studynote/studynote/internal/quiz"
)

// now is swappable in tests for the missing-completion-timestamp fallback.
var now = time.Now

// Detail is the per-question record of a scored review.
type Detail struct {
	Question       quiz.Question  `json:"question"`
	OriginalAnswer OriginalAnswer `json:"original_answer"`
	ReviewAnswer   grading.Answer `json:"review_answer"`
	CorrectNow     bool           `json:"correct_now"`
	Improved       bool           `json:"improved"`
}

// Result compares performance before and after a review session.
type Result struct {
	TotalQuestions   int      `json:"total_questions"`
	CorrectCount     int      `json:"correct_count"`
	IncorrectCount   int      `json:"incorrect_count"`
	ImprovementCount int      `json:"improvement_count"`
	AccuracyBefore   float64  `json:"accuracy_before"`
	AccuracyAfter    float64  `json:"accuracy_after"`
	ImprovementRate  float64  `json:"improvement_rate"`
	TimeSpentSec     int64    `json:"time_spent_sec"`
	Details          []Detail `json:"details"`
	WeakAreas        []string `json:"weak_areas"`
	StrengthAreas    []string `json:"strength_areas"`
}

// Score reduces a completed session to its result. It is deterministic for a
// session with a completion timestamp and never mutates the session. The
// original correctness flag is read as recorded, never re-derived; an
// improvement is a question wrong before and right now. A question right
// before and wrong now is a regression but is not separately counted.
func Score(s *Session) (Result, error) {
	if len(s.Questions) == 0 {
		return Result{}, ErrNoQuestions
	}
	if !s.Completed {
		return Result{}, ErrNotCompleted
	}

	details := make([]Detail, 0, len(s.Questions))
	correct, improved, origCorrect := 0, 0, 0
	for _, q := range s.Questions {
		orig, ok := s.OriginalAnswers[q.ID]
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingOriginal, q.ID)
		}
		sub := s.ReviewAnswers[q.ID] // zero Answer grades like an empty string

		correctNow := grading.Grade(q.GradingView(), sub)
		wasImproved := !orig.Correct && correctNow
		if correctNow {
			correct++
		}
		if wasImproved {
			improved++
		}
		if orig.Correct {
			origCorrect++
		}
		details = append(details, Detail{
			Question:       q,
			OriginalAnswer: orig,
			ReviewAnswer:   sub,
			CorrectNow:     correctNow,
			Improved:       wasImproved,
		})
	}

	total := len(s.Questions)
	before := 100 * float64(origCorrect) / float64(total)
	after := 100 * float64(correct) / float64(total)

	end := now().UTC()
	if s.CompletedAt != nil {
		end = *s.CompletedAt
	}
	weak, strength := Analyze(details)

	return Result{
		TotalQuestions:   total,
		CorrectCount:     correct,
		IncorrectCount:   total - correct,
		ImprovementCount: improved,
		AccuracyBefore:   before,
		AccuracyAfter:    after,
		ImprovementRate:  after - before,
		TimeSpentSec:     int64(end.Sub(s.StartedAt) / time.Second),
		Details:          details,
		WeakAreas:        weak,
		StrengthAreas:    strength,
	}, nil
}
