package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLStore keeps trackers in student_course_tracker; section status and quiz
// results are JSON columns.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) GetOrCreate(ctx context.Context, courseID string) (*Tracker, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO student_course_tracker
		(id,course_id,last_accessed,current_section_index,completed,section_status_json,quiz_results_json)
		VALUES ($1,$2,$3,0,$4,'{}','{}')
		ON CONFLICT (course_id) DO NOTHING`,
		uuid.NewString(), courseID, s.now().UnixMicro(), false)
	if err != nil {
		return nil, fmt.Errorf("create tracker %s: %w", courseID, err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT id,course_id,last_accessed,current_section_index,completed,completed_at,
		section_status_json,quiz_results_json FROM student_course_tracker WHERE course_id=$1`, courseID)
	var (
		t                    Tracker
		lastAccessed         int64
		completedAt          sql.NullInt64
		statusJSON, quizJSON string
	)
	if err := row.Scan(&t.ID, &t.CourseID, &lastAccessed, &t.CurrentSectionIndex, &t.Completed, &completedAt,
		&statusJSON, &quizJSON); err != nil {
		return nil, fmt.Errorf("load tracker %s: %w", courseID, err)
	}
	t.LastAccessed = time.UnixMicro(lastAccessed).UTC()
	if completedAt.Valid {
		at := time.UnixMicro(completedAt.Int64).UTC()
		t.CompletedAt = &at
	}
	if err := json.Unmarshal([]byte(statusJSON), &t.SectionStatus); err != nil {
		return nil, fmt.Errorf("decode section status %s: %w", courseID, err)
	}
	if err := json.Unmarshal([]byte(quizJSON), &t.QuizResults); err != nil {
		return nil, fmt.Errorf("decode quiz results %s: %w", courseID, err)
	}
	t.normalize()
	return &t, nil
}

func (s *SQLStore) Save(ctx context.Context, t *Tracker) error {
	statusJSON, err := json.Marshal(t.SectionStatus)
	if err != nil {
		return err
	}
	quizJSON, err := json.Marshal(t.QuizResults)
	if err != nil {
		return err
	}
	var completedAt sql.NullInt64
	if t.CompletedAt != nil {
		completedAt = sql.NullInt64{Int64: t.CompletedAt.UnixMicro(), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO student_course_tracker
		(id,course_id,last_accessed,current_section_index,completed,completed_at,section_status_json,quiz_results_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (course_id) DO UPDATE SET
		  last_accessed=EXCLUDED.last_accessed,
		  current_section_index=EXCLUDED.current_section_index,
		  completed=EXCLUDED.completed,
		  completed_at=EXCLUDED.completed_at,
		  section_status_json=EXCLUDED.section_status_json,
		  quiz_results_json=EXCLUDED.quiz_results_json`,
		t.ID, t.CourseID, t.LastAccessed.UnixMicro(), t.CurrentSectionIndex, t.Completed, completedAt,
		string(statusJSON), string(quizJSON))
	if err != nil {
		return fmt.Errorf("save tracker %s: %w", t.CourseID, err)
	}
	return nil
}
