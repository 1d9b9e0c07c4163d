package review

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/studynote/studynote/internal/grading"
	"github.com/studynote/studynote/internal/quiz"
	syncx "github.com/studynote/studynote/internal/sync"
)

var ErrNotFound = errors.New("review session not found")

// HistoryEntry is the durable summary kept after a session is scored and the
// session itself discarded. It backs the review-history listing.
type HistoryEntry struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	CompletedAt      int64    `json:"completed_at"`
	TotalQuestions   int      `json:"total_questions"`
	CorrectCount     int      `json:"correct_count"`
	ImprovementCount int      `json:"improvement_count"`
	AccuracyBefore   float64  `json:"accuracy_before"`
	AccuracyAfter    float64  `json:"accuracy_after"`
	ImprovementRate  float64  `json:"improvement_rate"`
	TimeSpentSec     int64    `json:"time_spent_sec"`
	WeakAreas        []string `json:"weak_areas,omitempty"`
	StrengthAreas    []string `json:"strength_areas,omitempty"`
	Grade            Grade    `json:"grade"`
}

type Store interface {
	PutSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error

	QuestionHistory(ctx context.Context, userID string) ([]QuestionHistory, error)

	AppendHistory(ctx context.Context, e HistoryEntry) error
	ListHistory(ctx context.Context, userID string, limit, offset int) ([]HistoryEntry, error)
}

// EventSink is satisfied by syncx.EventRepo.
type EventSink interface {
	Append(ctx context.Context, e syncx.Event) error
}

// Service owns the review flow: session creation from real answer history,
// question-by-question progress, and the one-shot hand-off to scoring.
type Service struct {
	store  Store
	events EventSink
}

func NewService(store Store, events EventSink) *Service {
	return &Service{store: store, events: events}
}

// Start selects review targets from the learner's recorded history and opens
// a session. ErrNoQuestions when the settings match nothing; the caller
// should send the user back to settings.
func (svc *Service) Start(ctx context.Context, userID string, st Settings) (*Session, error) {
	history, err := svc.store.QuestionHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	picked := SelectQuestions(history, st)
	if len(picked) == 0 {
		return nil, ErrNoQuestions
	}

	questions := make([]quiz.Question, 0, len(picked))
	originals := make(map[string]OriginalAnswer, len(picked))
	for _, h := range picked {
		questions = append(questions, h.Question)
		originals[h.Question.ID] = h.Latest
	}

	sess, err := NewSession(userID, st, questions, originals)
	if err != nil {
		return nil, err
	}
	if err := svc.store.PutSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns a session owned by userID. Other users' sessions read as not
// found rather than forbidden.
func (svc *Service) Get(ctx context.Context, id, userID string) (*Session, error) {
	s, err := svc.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, ErrNotFound
	}
	return s, nil
}

// SubmitAnswer records the answer for the session's current question and
// persists the advanced (or completed) session.
func (svc *Service) SubmitAnswer(ctx context.Context, id, userID string, sub grading.Answer) (*Session, error) {
	s, err := svc.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Answer(sub); err != nil {
		return nil, err
	}
	if err := svc.store.PutSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// StepBack moves the session one question back and persists it.
func (svc *Service) StepBack(ctx context.Context, id, userID string) (*Session, error) {
	s, err := svc.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.Back()
	if err := svc.store.PutSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Result scores a completed session, records the durable history entry and
// event, and discards the session. Calling it twice therefore yields
// ErrNotFound the second time; the result is handed off, not retained.
func (svc *Service) Result(ctx context.Context, id, userID string) (Result, error) {
	s, err := svc.Get(ctx, id, userID)
	if err != nil {
		return Result{}, err
	}
	res, err := Score(s)
	if err != nil {
		return Result{}, err
	}

	completedAt := time.Now().Unix()
	if s.CompletedAt != nil {
		completedAt = s.CompletedAt.Unix()
	}
	entry := HistoryEntry{
		ID:               uuid.NewString(),
		UserID:           userID,
		CompletedAt:      completedAt,
		TotalQuestions:   res.TotalQuestions,
		CorrectCount:     res.CorrectCount,
		ImprovementCount: res.ImprovementCount,
		AccuracyBefore:   res.AccuracyBefore,
		AccuracyAfter:    res.AccuracyAfter,
		ImprovementRate:  res.ImprovementRate,
		TimeSpentSec:     res.TimeSpentSec,
		WeakAreas:        res.WeakAreas,
		StrengthAreas:    res.StrengthAreas,
		Grade:            ImprovementGrade(res.ImprovementRate),
	}
	if err := svc.store.AppendHistory(ctx, entry); err != nil {
		return Result{}, err
	}
	if svc.events != nil {
		data, _ := json.Marshal(entry)
		if err := svc.events.Append(ctx, syncx.Event{
			Type:     "ReviewCompleted",
			Key:      s.ID,
			DataJSON: string(data),
		}); err != nil {
			log.Printf("event append failed for review %s: %v", s.ID, err)
		}
	}
	if err := svc.store.DeleteSession(ctx, s.ID); err != nil {
		log.Printf("discard review session %s: %v", s.ID, err)
	}
	return res, nil
}

// History lists past review summaries, newest first.
func (svc *Service) History(ctx context.Context, userID string, limit, offset int) ([]HistoryEntry, error) {
	return svc.store.ListHistory(ctx, userID, limit, offset)
}
