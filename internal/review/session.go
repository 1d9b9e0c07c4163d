package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studynote/studynote/internal/grading"
	"github.com/studynote/studynote/internal/quiz"
)

type TargetMode string

const (
	TargetIncorrect TargetMode = "incorrect"
	TargetLowScore  TargetMode = "low-score"
	TargetCategory  TargetMode = "category"
	TargetAll       TargetMode = "all"
)

type Format string

const (
	FormatQuiz        Format = "quiz"
	FormatFlashcard   Format = "flashcard"
	FormatExplanation Format = "explanation"
)

// Settings select which questions a review session covers and how it is run.
type Settings struct {
	TargetMode     TargetMode `json:"target_mode" validate:"oneof=incorrect low-score category all"`
	Categories     []string   `json:"categories,omitempty" validate:"required_if=TargetMode category"`
	ScoreThreshold int        `json:"score_threshold,omitempty" validate:"omitempty,gte=0,lte=100"`
	QuestionCount  int        `json:"question_count" validate:"oneof=3 5 10 20"`
	Format         Format     `json:"format" validate:"oneof=quiz flashcard explanation"`
}

// OriginalAnswer is the learner's earlier response to a question, graded at
// the time it was recorded. Immutable once a review session starts.
type OriginalAnswer struct {
	QuestionID   string `json:"question_id"`
	Answer       string `json:"answer"`
	Correct      bool   `json:"correct"`
	TimeSpentSec int    `json:"time_spent_sec,omitempty"`
}

var (
	ErrNoQuestions     = errors.New("review session has no questions")
	ErrCompleted       = errors.New("review session already completed")
	ErrNotCompleted    = errors.New("review session not completed")
	ErrMissingOriginal = errors.New("original answer missing")
)

// Session is one pass over a set of previously-seen questions. It is owned
// exclusively by the active review flow: one session per user at a time,
// handed off by value to the results computation and then discarded.
type Session struct {
	ID               string                    `json:"id"`
	UserID           string                    `json:"user_id"`
	Settings         Settings                  `json:"settings"`
	Questions        []quiz.Question           `json:"questions"`
	OriginalAnswers  map[string]OriginalAnswer `json:"original_answers"`
	ReviewAnswers    map[string]grading.Answer `json:"review_answers"`
	CurrentIndex     int                       `json:"current_index"`
	StartedAt        time.Time                 `json:"started_at"`
	CompletedAt      *time.Time                `json:"completed_at,omitempty"`
	Completed        bool                      `json:"completed"`
	ImprovementCount int                       `json:"improvement_count"`
}

// NewSession starts a review over questions with their recorded original
// answers. The originals map must cover every question; that is a session
// construction invariant, violated means the history read is broken.
func NewSession(userID string, settings Settings, questions []quiz.Question, originals map[string]OriginalAnswer) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	for _, q := range questions {
		if _, ok := originals[q.ID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingOriginal, q.ID)
		}
	}
	return &Session{
		ID:              uuid.NewString(),
		UserID:          userID,
		Settings:        settings,
		Questions:       questions,
		OriginalAnswers: originals,
		ReviewAnswers:   map[string]grading.Answer{},
		StartedAt:       time.Now().UTC(),
	}, nil
}

func (s *Session) Current() quiz.Question {
	return s.Questions[s.CurrentIndex]
}

func (s *Session) OnLastQuestion() bool {
	return s.CurrentIndex == len(s.Questions)-1
}

// Answer records the submission for the current question and advances.
// Answering the last question completes the session; scoring itself is
// deferred to the results reader. Re-answering a revisited question
// overwrites the stored answer without touching the running improvement
// counter again.
func (s *Session) Answer(sub grading.Answer) error {
	if s.Completed {
		return ErrCompleted
	}
	q := s.Current()
	_, answered := s.ReviewAnswers[q.ID]
	s.ReviewAnswers[q.ID] = sub

	// Running counter for the in-progress display. Essays are excluded:
	// presence-graded answers say nothing about improvement mid-session.
	if !answered && q.Type != quiz.TypeEssay {
		orig := s.OriginalAnswers[q.ID]
		if !orig.Correct && grading.Grade(q.GradingView(), sub) {
			s.ImprovementCount++
		}
	}

	if s.OnLastQuestion() {
		now := time.Now().UTC()
		s.Completed = true
		s.CompletedAt = &now
		return nil
	}
	s.CurrentIndex++
	return nil
}

// Back moves to the previous question and returns its stored answer, if any,
// so the caller can restore it in the input widget.
func (s *Session) Back() (grading.Answer, bool) {
	if s.Completed || s.CurrentIndex == 0 {
		return grading.Answer{}, false
	}
	s.CurrentIndex--
	prev, ok := s.ReviewAnswers[s.Current().ID]
	return prev, ok
}
