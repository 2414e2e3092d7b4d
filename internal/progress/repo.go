package progress

import "context"

// Store holds at most one tracker per course. GetOrCreate never reports not-found;
// Save writes the whole record.
type Store interface {
	GetOrCreate(ctx context.Context, courseID string) (*Tracker, error)
	Save(ctx context.Context, t *Tracker) error
}
