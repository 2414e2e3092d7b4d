package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu       sync.RWMutex
	trackers map[string]*Tracker // by course id
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trackers: map[string]*Tracker{}, now: time.Now}
}

func (m *MemoryStore) GetOrCreate(_ context.Context, courseID string) (*Tracker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trackers[courseID]
	if !ok {
		t = newTracker(uuid.NewString(), courseID, m.now().UTC())
		m.trackers[courseID] = t
	}
	return t.clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, t *Tracker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackers[t.CourseID] = t.clone()
	return nil
}

// Len reports how many trackers exist.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trackers)
}
