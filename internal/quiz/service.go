package quiz

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

var ErrInvalidQuiz = errors.New("invalid quiz")

// ValidationError carries the advisory problems that kept a quiz from being saved.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Message)
	}
	return "invalid quiz: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidQuiz }

// Service persists quizzes only after they validate.
type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Create(ctx context.Context, qz Quiz) (Record, error) {
	if err := check(qz); err != nil {
		return Record{}, err
	}
	rec, err := s.store.Create(ctx, qz.Type, qz.Questions)
	if err != nil {
		return Record{}, err
	}
	s.log.Debug("quiz created", zap.String("quiz_id", rec.ID), zap.Int("questions", len(qz.Questions)))
	return rec, nil
}

// Update replaces the questions and type of an existing quiz.
func (s *Service) Update(ctx context.Context, id string, qz Quiz) (Record, error) {
	if err := check(qz); err != nil {
		return Record{}, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	rec.Quiz = qz
	if err := s.store.Save(ctx, rec); err != nil {
		return Record{}, err
	}
	s.log.Debug("quiz updated", zap.String("quiz_id", id), zap.Int("questions", len(qz.Questions)))
	return s.store.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.store.Get(ctx, id)
}

func check(qz Quiz) error {
	if qz.Type.Valid() && qz.Validate() {
		return nil
	}
	return &ValidationError{Problems: qz.Problems()}
}
