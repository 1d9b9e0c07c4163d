package review

import "github.com/studynote/studynote/internal/quiz"

// QuestionHistory is a learner's accumulated record for one question,
// folded from the question_history table.
type QuestionHistory struct {
	Question quiz.Question
	Attempts int
	Correct  int
	// Latest recorded answer; becomes the review session's original answer.
	Latest OriginalAnswer
}

// accuracyPercent is the historical accuracy of one question, 0..100.
func (h QuestionHistory) accuracyPercent() float64 {
	if h.Attempts == 0 {
		return 0
	}
	return 100 * float64(h.Correct) / float64(h.Attempts)
}

// SelectQuestions filters a learner's history down to the review targets the
// settings ask for, in history order, truncated to the requested count.
func SelectQuestions(history []QuestionHistory, st Settings) []QuestionHistory {
	var picked []QuestionHistory
	for _, h := range history {
		switch st.TargetMode {
		case TargetIncorrect:
			if h.Latest.Correct {
				continue
			}
		case TargetLowScore:
			threshold := float64(st.ScoreThreshold)
			if threshold == 0 {
				threshold = 100 * WeakAreaThreshold
			}
			if h.accuracyPercent() >= threshold {
				continue
			}
		case TargetCategory:
			if !hasAnyTag(h.Question, st.Categories) {
				continue
			}
		case TargetAll:
			// keep everything
		}
		picked = append(picked, h)
	}
	if st.QuestionCount > 0 && len(picked) > st.QuestionCount {
		picked = picked[:st.QuestionCount]
	}
	return picked
}

func hasAnyTag(q quiz.Question, categories []string) bool {
	for _, tag := range q.Tags {
		for _, c := range categories {
			if tag == c {
				return true
			}
		}
	}
	return false
}
