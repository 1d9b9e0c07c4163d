package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/studynote/studynote/internal/grading"
	syncx "github.com/studynote/studynote/internal/sync"
)

var (
	ErrQuizNotFound   = errors.New("quiz not found")
	ErrResultNotFound = errors.New("quiz result not found")
)

// HistoryRecorder receives every graded answer so review sessions can later
// source real original answers instead of fabricated ones.
type HistoryRecorder interface {
	RecordAnswer(ctx context.Context, userID string, q Question, answer string, correct bool, timeSpentSec int) error
}

type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)     // answer keys stripped
	GetQuizFull(ctx context.Context, id string) (Quiz, error) // with keys, for grading/review
	ListQuizzes(ctx context.Context, userID string, limit, offset int) ([]Quiz, error)
	SubmitResult(ctx context.Context, quizID, userID string, answers map[string]grading.Answer, timeSpent map[string]int) (Result, error)
	GetResult(ctx context.Context, id string) (Result, error)
}

type SQLStore struct {
	db      *sql.DB
	history HistoryRecorder
	events  *syncx.EventRepo
}

func NewSQLStore(db *sql.DB, history HistoryRecorder, events *syncx.EventRepo) *SQLStore {
	return &SQLStore{db: db, history: history, events: events}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	for _, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return err
		}
	}
	noteIDs, err := json.Marshal(q.NoteIDs)
	if err != nil {
		return err
	}
	settings, err := json.Marshal(q.Settings)
	if err != nil {
		return err
	}
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	createdAt := q.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,user_id,note_ids_json,settings_json,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET questions_json=EXCLUDED.questions_json, settings_json=EXCLUDED.settings_json`,
		q.ID, q.UserID, string(noteIDs), string(settings), string(questions), createdAt)
	return err
}

func (s *SQLStore) getQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,user_id,note_ids_json,settings_json,questions_json,created_at
		FROM quizzes WHERE id=$1`, id)
	var (
		q                           Quiz
		noteIDs, settings, question string
	)
	if err := row.Scan(&q.ID, &q.UserID, &noteIDs, &settings, &question, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(noteIDs), &q.NoteIDs); err != nil {
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(settings), &q.Settings); err != nil {
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(question), &q.Questions); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	q, err := s.getQuiz(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	// Strip answer keys when serving to takers.
	for i := range q.Questions {
		q.Questions[i] = q.Questions[i].StripKeys()
	}
	return q, nil
}

func (s *SQLStore) GetQuizFull(ctx context.Context, id string) (Quiz, error) {
	return s.getQuiz(ctx, id)
}

func (s *SQLStore) ListQuizzes(ctx context.Context, userID string, limit, offset int) ([]Quiz, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,user_id,note_ids_json,settings_json,questions_json,created_at
		FROM quizzes WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quiz
	for rows.Next() {
		var (
			q                           Quiz
			noteIDs, settings, question string
		)
		if err := rows.Scan(&q.ID, &q.UserID, &noteIDs, &settings, &question, &q.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(noteIDs), &q.NoteIDs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(settings), &q.Settings); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(question), &q.Questions); err != nil {
			return nil, err
		}
		for i := range q.Questions {
			q.Questions[i] = q.Questions[i].StripKeys()
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// SubmitResult grades the submission against the full quiz, persists the
// result, and feeds every graded answer into the question history.
func (s *SQLStore) SubmitResult(ctx context.Context, quizID, userID string, answers map[string]grading.Answer, timeSpent map[string]int) (Result, error) {
	q, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return Result{}, err
	}
	graded, score := GradeSubmission(q.Questions, answers, timeSpent)

	res := Result{
		ID:          uuid.NewString(),
		QuizID:      quizID,
		UserID:      userID,
		Answers:     graded,
		Score:       score,
		CompletedAt: time.Now().Unix(),
	}
	buf, err := json.Marshal(res.Answers)
	if err != nil {
		return Result{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quiz_results (id,quiz_id,user_id,answers_json,score,completed_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		res.ID, res.QuizID, res.UserID, string(buf), res.Score, res.CompletedAt)
	if err != nil {
		return Result{}, err
	}

	if s.history != nil {
		for i, question := range q.Questions {
			ua := graded[i]
			if err := s.history.RecordAnswer(ctx, userID, question, ua.Answer, ua.Correct, ua.TimeSpentSec); err != nil {
				log.Printf("record history for question %s: %v", question.ID, err)
			}
		}
	}
	if s.events != nil {
		data, _ := json.Marshal(res)
		if err := s.events.Append(ctx, syncx.Event{
			Type:     "QuizSubmitted",
			Key:      res.ID,
			DataJSON: string(data),
		}); err != nil {
			log.Printf("event append failed for result %s: %v", res.ID, err)
		}
	}
	return res, nil
}

func (s *SQLStore) GetResult(ctx context.Context, id string) (Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,quiz_id,user_id,answers_json,score,completed_at
		FROM quiz_results WHERE id=$1`, id)
	var (
		res     Result
		answers string
	)
	if err := row.Scan(&res.ID, &res.QuizID, &res.UserID, &answers, &res.Score, &res.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrResultNotFound
		}
		return Result{}, err
	}
	if err := json.Unmarshal([]byte(answers), &res.Answers); err != nil {
		return Result{}, err
	}
	return res, nil
}
