package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLStore keeps one row per quiz in the quizzes table; the quiz record lives in quiz_json.
// Times are stored as unix microseconds.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Create(ctx context.Context, t Type, questions []Question) (Record, error) {
	now := time.UnixMicro(s.now().UnixMicro()).UTC()
	rec := Record{
		ID:        uuid.NewString(),
		Quiz:      clone(Quiz{Type: t, Questions: questions}),
		CreatedAt: now,
		UpdatedAt: now,
	}
	qj, err := EncodeQuiz(rec.Quiz)
	if err != nil {
		return Record{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,type,quiz_json,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5)`,
		rec.ID, string(t), string(qj), now.UnixMicro(), now.UnixMicro())
	if err != nil {
		return Record{}, fmt.Errorf("insert quiz: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) Save(ctx context.Context, rec Record) error {
	qj, err := EncodeQuiz(rec.Quiz)
	if err != nil {
		return err
	}
	now := s.now().UnixMicro()
	created := rec.CreatedAt.UnixMicro()
	if rec.CreatedAt.IsZero() {
		created = now
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,type,quiz_json,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET type=EXCLUDED.type, quiz_json=EXCLUDED.quiz_json, updated_at=EXCLUDED.updated_at`,
		rec.ID, string(rec.Quiz.Type), string(qj), created, now)
	if err != nil {
		return fmt.Errorf("save quiz %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,quiz_json,created_at,updated_at FROM quizzes WHERE id=$1`, id)
	var (
		rec              Record
		qjson            string
		created, updated int64
	)
	if err := row.Scan(&rec.ID, &qjson, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("get quiz %s: %w", id, err)
	}
	qz, err := DecodeQuiz([]byte(qjson))
	if err != nil {
		return Record{}, err
	}
	rec.Quiz = qz
	rec.CreatedAt = time.UnixMicro(created).UTC()
	rec.UpdatedAt = time.UnixMicro(updated).UTC()
	return rec, nil
}
