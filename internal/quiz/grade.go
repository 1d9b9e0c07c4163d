package quiz

import (
	"github.com/studynote/studynote/internal/grading"
)

// GradeSubmission grades every answer against the quiz questions and returns
// the per-question records plus the percentage score. Unanswered questions
// grade as incorrect.
func GradeSubmission(questions []Question, answers map[string]grading.Answer, timeSpent map[string]int) ([]UserAnswer, float64) {
	if len(questions) == 0 {
		return nil, 0
	}
	out := make([]UserAnswer, 0, len(questions))
	correct := 0
	for _, q := range questions {
		a := answers[q.ID]
		ok := grading.Grade(q.GradingView(), a)
		if ok {
			correct++
		}
		out = append(out, UserAnswer{
			QuestionID:   q.ID,
			Answer:       a.First(),
			Correct:      ok,
			TimeSpentSec: timeSpent[q.ID],
		})
	}
	return out, 100 * float64(correct) / float64(len(questions))
}
