package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quizzes: map[string]Record{},
		now:     time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, t Type, questions []Question) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	rec := Record{
		ID:        uuid.NewString(),
		Quiz:      clone(Quiz{Type: t, Questions: questions}),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.quizzes[rec.ID] = rec
	return Record{ID: rec.ID, Quiz: clone(rec.Quiz), CreatedAt: now, UpdatedAt: now}, nil
}

func (m *MemoryStore) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.quizzes[rec.ID]; ok && rec.CreatedAt.IsZero() {
		rec.CreatedAt = prev.CreatedAt
	}
	rec.Quiz = clone(rec.Quiz)
	rec.UpdatedAt = m.now().UTC()
	m.quizzes[rec.ID] = rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.quizzes[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Quiz = clone(rec.Quiz)
	return rec, nil
}
