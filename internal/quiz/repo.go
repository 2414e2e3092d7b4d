package quiz

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("quiz not found")

// Store persists whole quiz records. A record is never partially written.
type Store interface {
	Create(ctx context.Context, t Type, questions []Question) (Record, error)
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error) // ErrNotFound when absent
}

func clone(qz Quiz) Quiz {
	out := Quiz{Type: qz.Type, Questions: make([]Question, 0, len(qz.Questions))}
	for _, q := range qz.Questions {
		if mc, ok := q.(MultipleChoiceQuestion); ok {
			mc.Options = append([]string(nil), mc.Options...)
			q = mc
		}
		out.Questions = append(out.Questions, q)
	}
	return out
}
