package quiz

import (
	"fmt"

	"github.com/studynote/studynote/internal/grading"
)

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeTrueFalse      QuestionType = "true-false"
	TypeEssay          QuestionType = "essay"
)

type Difficulty string

const (
	DifficultyBasic    Difficulty = "basic"
	DifficultyStandard Difficulty = "standard"
	DifficultyAdvanced Difficulty = "advanced"
)

// Question is one generated question. Which answer fields are populated
// depends on Type: Choices/CorrectChoice for multiple-choice,
// Options/CorrectOption for true-false, ModelAnswer for essay.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	Choices       []string     `json:"choices,omitempty"`
	CorrectChoice int          `json:"correct_choice,omitempty"`
	Options       []string     `json:"options,omitempty"`
	CorrectOption string       `json:"correct_option,omitempty"`
	ModelAnswer   string       `json:"model_answer,omitempty"` // never auto-graded
	Explanation   string       `json:"explanation,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Difficulty    Difficulty   `json:"difficulty,omitempty"`
}

// Validate checks the per-type answer-key invariants.
func (q Question) Validate() error {
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Choices) == 0 {
			return fmt.Errorf("question %s: multiple-choice without choices", q.ID)
		}
		if q.CorrectChoice < 0 || q.CorrectChoice >= len(q.Choices) {
			return fmt.Errorf("question %s: correct_choice %d out of range", q.ID, q.CorrectChoice)
		}
	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return fmt.Errorf("question %s: true-false needs exactly two options", q.ID)
		}
		if q.CorrectOption != q.Options[0] && q.CorrectOption != q.Options[1] {
			return fmt.Errorf("question %s: correct_option not one of the options", q.ID)
		}
	case TypeEssay:
		// model answer is optional; nothing to enforce
	default:
		return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	return nil
}

// GradingView reduces the question to the fields the grader needs.
func (q Question) GradingView() grading.Q {
	return grading.Q{
		Type:          string(q.Type),
		CorrectChoice: q.CorrectChoice,
		CorrectOption: q.CorrectOption,
	}
}

// StripKeys returns a copy with answer keys removed, for serving to takers.
func (q Question) StripKeys() Question {
	q.CorrectChoice = 0
	q.CorrectOption = ""
	q.ModelAnswer = ""
	q.Explanation = ""
	return q
}

// Settings control quiz generation.
type Settings struct {
	QuestionCount int          `json:"question_count" validate:"oneof=3 5 10 20"`
	QuestionType  QuestionType `json:"question_type" validate:"oneof=multiple-choice true-false essay"`
	Difficulty    Difficulty   `json:"difficulty" validate:"oneof=basic standard advanced"`
}

type Quiz struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	NoteIDs   []string   `json:"note_ids"`
	Settings  Settings   `json:"settings"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"created_at,omitempty"`
}

// UserAnswer is one graded answer inside a quiz result.
type UserAnswer struct {
	QuestionID   string `json:"question_id"`
	Answer       string `json:"answer"`
	Correct      bool   `json:"correct"`
	TimeSpentSec int    `json:"time_spent_sec,omitempty"`
}

type Result struct {
	ID          string       `json:"id"`
	QuizID      string       `json:"quiz_id"`
	UserID      string       `json:"user_id"`
	Answers     []UserAnswer `json:"answers"`
	Score       float64      `json:"score"` // percent correct
	CompletedAt int64        `json:"completed_at"`
}
