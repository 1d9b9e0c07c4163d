package note

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Store interface {
	Put(ctx context.Context, n Note) error
	Get(ctx context.Context, id string) (Note, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Note, error)
	Delete(ctx context.Context, id, userID string) error
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, n Note) error {
	createdAt := n.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO notes (id,user_id,title,content,file_key,content_type,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, content=EXCLUDED.content,
			file_key=EXCLUDED.file_key, content_type=EXCLUDED.content_type`,
		n.ID, n.UserID, n.Title, n.Content, n.FileKey, n.ContentType, createdAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,user_id,title,content,file_key,content_type,created_at
		FROM notes WHERE id=$1`, id)
	var n Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.FileKey, &n.ContentType, &n.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	return n, nil
}

func (s *SQLStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Note, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,user_id,title,content,file_key,content_type,created_at
		FROM notes WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.FileKey, &n.ContentType, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
