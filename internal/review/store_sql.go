package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/studynote/studynote/internal/grading"
	"github.com/studynote/studynote/internal/quiz"
)

// SQLStore persists sessions as JSON blobs and history as flat rows. Works
// against sqlite and postgres through database/sql.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutSession(ctx context.Context, sess *Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO review_sessions (id,user_id,session_json,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET session_json=EXCLUDED.session_json`,
		sess.ID, sess.UserID, string(buf), time.Now().Unix())
	return err
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT session_json FROM review_sessions WHERE id=$1`, id)
	var blob string
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(blob), &sess); err != nil {
		return nil, err
	}
	if sess.ReviewAnswers == nil {
		sess.ReviewAnswers = map[string]grading.Answer{}
	}
	return &sess, nil
}

func (s *SQLStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM review_sessions WHERE id=$1`, id)
	return err
}

// RecordAnswer appends one graded answer to the learner's question history.
// Quiz submission is the writer; review selection is the reader. The
// signature satisfies quiz.HistoryRecorder.
func (s *SQLStore) RecordAnswer(ctx context.Context, userID string, q quiz.Question, answer string, correct bool, timeSpentSec int) error {
	qj, err := json.Marshal(q)
	if err != nil {
		return err
	}
	c := 0
	if correct {
		c = 1
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO question_history
		(user_id,question_id,question_json,answer,correct,time_spent_sec,answered_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		userID, q.ID, string(qj), answer, c, timeSpentSec, time.Now().Unix())
	return err
}

// QuestionHistory folds the flat history rows into one record per question,
// oldest-first by first appearance, with the latest answer kept per question.
func (s *SQLStore) QuestionHistory(ctx context.Context, userID string) ([]QuestionHistory, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question_id,question_json,answer,correct,time_spent_sec
		FROM question_history WHERE user_id=$1 ORDER BY answered_at, question_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[string]*QuestionHistory{}
	var order []string
	for rows.Next() {
		var (
			qid, qjson, answer string
			correct, spent     int
		)
		if err := rows.Scan(&qid, &qjson, &answer, &correct, &spent); err != nil {
			return nil, err
		}
		h, ok := byID[qid]
		if !ok {
			h = &QuestionHistory{}
			byID[qid] = h
			order = append(order, qid)
		}
		// Later rows may carry a regenerated question body; keep the newest.
		if err := json.Unmarshal([]byte(qjson), &h.Question); err != nil {
			return nil, err
		}
		h.Attempts++
		if correct == 1 {
			h.Correct++
		}
		h.Latest = OriginalAnswer{
			QuestionID:   qid,
			Answer:       answer,
			Correct:      correct == 1,
			TimeSpentSec: spent,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]QuestionHistory, 0, len(order))
	for _, qid := range order {
		out = append(out, *byID[qid])
	}
	return out, nil
}

func (s *SQLStore) AppendHistory(ctx context.Context, e HistoryEntry) error {
	weak, err := json.Marshal(e.WeakAreas)
	if err != nil {
		return err
	}
	strength, err := json.Marshal(e.StrengthAreas)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO review_history
		(id,user_id,completed_at,total_questions,correct_count,improvement_count,
		 accuracy_before,accuracy_after,improvement_rate,time_spent_sec,
		 weak_areas_json,strength_areas_json,grade)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		e.ID, e.UserID, e.CompletedAt, e.TotalQuestions, e.CorrectCount, e.ImprovementCount,
		e.AccuracyBefore, e.AccuracyAfter, e.ImprovementRate, e.TimeSpentSec,
		string(weak), string(strength), string(e.Grade))
	return err
}

func (s *SQLStore) ListHistory(ctx context.Context, userID string, limit, offset int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,user_id,completed_at,total_questions,correct_count,
		improvement_count,accuracy_before,accuracy_after,improvement_rate,time_spent_sec,
		weak_areas_json,strength_areas_json,grade
		FROM review_history WHERE user_id=$1 ORDER BY completed_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			e              HistoryEntry
			weak, strength string
			grade          string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.CompletedAt, &e.TotalQuestions, &e.CorrectCount,
			&e.ImprovementCount, &e.AccuracyBefore, &e.AccuracyAfter, &e.ImprovementRate, &e.TimeSpentSec,
			&weak, &strength, &grade); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(weak), &e.WeakAreas); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(strength), &e.StrengthAreas); err != nil {
			return nil, err
		}
		e.Grade = Grade(grade)
		out = append(out, e)
	}
	return out, rows.Err()
}
