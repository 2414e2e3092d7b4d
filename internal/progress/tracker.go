package progress

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	syncx "github.com/mind-engage/mindengage-courses/internal/sync"
)

// EventSink receives an event after each successful tracker write.
type EventSink interface {
	Append(ctx context.Context, e syncx.Event) error
}

// Service applies section and course transitions. Every write is one
// read-modify-write against the store; concurrent writers to the same course
// race with last-write-wins.
type Service struct {
	store  Store
	events EventSink
	siteID string
	log    *zap.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithEvents(sink EventSink, siteID string) Option {
	return func(s *Service) { s.events, s.siteID = sink, siteID }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) update(ctx context.Context, courseID string, apply func(t *Tracker, now time.Time)) (*Tracker, error) {
	t, err := s.store.GetOrCreate(ctx, courseID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	apply(t, now)
	t.LastAccessed = now
	if err := s.store.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// StartSection marks the section in progress and moves the current index to it.
// A completed section is set back to in progress.
func (s *Service) StartSection(ctx context.Context, courseID, sectionID string, index int) error {
	_, err := s.update(ctx, courseID, func(t *Tracker, _ time.Time) {
		t.SectionStatus[sectionID] = InProgress
		t.CurrentSectionIndex = index
	})
	if err != nil {
		return err
	}
	s.log.Debug("section started",
		zap.String("course_id", courseID), zap.String("section_id", sectionID), zap.Int("index", index))
	s.emit(ctx, syncx.TypeSectionStarted, courseID, map[string]any{"section_id": sectionID, "index": index})
	return nil
}

// MarkSectionComplete marks the section completed. For quiz sections pass the attempt
// payload; it is checked before anything is written, so a malformed payload leaves
// the tracker untouched.
func (s *Service) MarkSectionComplete(ctx context.Context, courseID, sectionID string, data QuizData) error {
	var (
		attempt    Attempt
		hasAttempt bool
	)
	if data != nil {
		a, err := NewAttempt(data, s.now())
		if err != nil {
			return err
		}
		attempt, hasAttempt = a, true
	}
	_, err := s.update(ctx, courseID, func(t *Tracker, _ time.Time) {
		t.SectionStatus[sectionID] = Completed
		if hasAttempt {
			t.QuizResults[sectionID] = append(t.QuizResults[sectionID], attempt)
		}
	})
	if err != nil {
		return err
	}
	s.log.Debug("section completed",
		zap.String("course_id", courseID), zap.String("section_id", sectionID), zap.Bool("quiz", hasAttempt))
	s.emit(ctx, syncx.TypeSectionCompleted, courseID, map[string]any{"section_id": sectionID})
	if hasAttempt {
		s.emit(ctx, syncx.TypeQuizAttemptRecorded, courseID, map[string]any{
			"section_id": sectionID,
			"attempt":    attempt,
		})
	}
	return nil
}

// MarkCourseCompleted flags the whole course as done. Section states are not checked.
func (s *Service) MarkCourseCompleted(ctx context.Context, courseID string) error {
	_, err := s.update(ctx, courseID, func(t *Tracker, now time.Time) {
		t.Completed = true
		t.CompletedAt = &now
	})
	if err != nil {
		return err
	}
	s.log.Debug("course completed", zap.String("course_id", courseID))
	s.emit(ctx, syncx.TypeCourseCompleted, courseID, nil)
	return nil
}

// Progress returns the course tracker, creating it on first access.
func (s *Service) Progress(ctx context.Context, courseID string) (*Tracker, error) {
	return s.store.GetOrCreate(ctx, courseID)
}

func (s *Service) SectionStatus(ctx context.Context, courseID, sectionID string) (SectionStatus, error) {
	t, err := s.store.GetOrCreate(ctx, courseID)
	if err != nil {
		return "", err
	}
	return t.Status(sectionID), nil
}

// QuizAttempts returns the section's attempts, oldest first; empty when none.
func (s *Service) QuizAttempts(ctx context.Context, courseID, sectionID string) ([]Attempt, error) {
	t, err := s.store.GetOrCreate(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return t.Attempts(sectionID), nil
}

// SectionProgress returns status and attempts from a single read.
func (s *Service) SectionProgress(ctx context.Context, courseID, sectionID string) (SectionStatus, []Attempt, error) {
	t, err := s.store.GetOrCreate(ctx, courseID)
	if err != nil {
		return "", nil, err
	}
	return t.Status(sectionID), t.Attempts(sectionID), nil
}

func (s *Service) CurrentSectionIndex(ctx context.Context, courseID string) (int, error) {
	t, err := s.store.GetOrCreate(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return t.CurrentSectionIndex, nil
}

func (s *Service) emit(ctx context.Context, typ, courseID string, payload map[string]any) {
	if s.events == nil {
		return
	}
	if payload == nil {
		payload = map[string]any{}
	}
	payload["course_id"] = courseID
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("encode event", zap.String("type", typ), zap.Error(err))
		return
	}
	err = s.events.Append(ctx, syncx.Event{SiteID: s.siteID, Type: typ, Key: courseID, DataJSON: string(data)})
	if err != nil {
		// the tracker is already saved; the log is best effort
		s.log.Warn("append event", zap.String("type", typ), zap.String("course_id", courseID), zap.Error(err))
	}
}
