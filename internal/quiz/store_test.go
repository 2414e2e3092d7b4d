package quiz_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-courses/internal/db"
	"github.com/mind-engage/mindengage-courses/internal/quiz"
)

func stores(t *testing.T) map[string]quiz.Store {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return map[string]quiz.Store{
		"memory": quiz.NewMemoryStore(),
		"sql":    quiz.NewSQLStore(dbh),
	}
}

func TestStoreCreateSaveGet(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := st.Create(ctx, quiz.MultipleChoice, []quiz.Question{validMC()})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if rec.ID == "" {
				t.Fatal("expected an id")
			}

			got, err := st.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !reflect.DeepEqual(got.Quiz, rec.Quiz) {
				t.Fatalf("got %#v, want %#v", got.Quiz, rec.Quiz)
			}

			got.Quiz.Reset(quiz.FillInTheBlank)
			got.Quiz.Add(validFIB())
			if err := st.Save(ctx, got); err != nil {
				t.Fatalf("save: %v", err)
			}
			again, err := st.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("get after save: %v", err)
			}
			if again.Quiz.Type != quiz.FillInTheBlank || len(again.Quiz.Questions) != 1 {
				t.Fatalf("save not applied: %#v", again.Quiz)
			}
			if !again.CreatedAt.Equal(rec.CreatedAt) {
				t.Fatalf("created_at changed: %v -> %v", rec.CreatedAt, again.CreatedAt)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := st.Get(context.Background(), "nope"); !errors.Is(err, quiz.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	st := quiz.NewMemoryStore()
	q := validMC()
	rec, _ := st.Create(ctx, quiz.MultipleChoice, []quiz.Question{q})
	q.Options[0] = "mutated"

	got, _ := st.Get(ctx, rec.ID)
	if got.Quiz.Questions[0].(quiz.MultipleChoiceQuestion).Options[0] != "Venus" {
		t.Fatal("store shares option slices with the caller")
	}
}

func TestServiceRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	st := quiz.NewMemoryStore()
	svc := quiz.NewService(st, nil)

	_, err := svc.Create(ctx, quiz.New(quiz.MultipleChoice))
	var ve *quiz.ValidationError
	if !errors.As(err, &ve) || !errors.Is(err, quiz.ErrInvalidQuiz) {
		t.Fatalf("expected validation error, got %v", err)
	}

	rec, err := svc.Create(ctx, quiz.Quiz{Type: quiz.MultipleChoice, Questions: []quiz.Question{validMC()}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := validMC()
	bad.CorrectAnswer = 7
	if _, err := svc.Update(ctx, rec.ID, quiz.Quiz{Type: quiz.MultipleChoice, Questions: []quiz.Question{bad}}); !errors.Is(err, quiz.ErrInvalidQuiz) {
		t.Fatalf("expected ErrInvalidQuiz, got %v", err)
	}
	got, _ := st.Get(ctx, rec.ID)
	if got.Quiz.Questions[0].(quiz.MultipleChoiceQuestion).CorrectAnswer != 1 {
		t.Fatal("invalid update must not be persisted")
	}

	if _, err := svc.Update(ctx, "missing", quiz.Quiz{Type: quiz.FillInTheBlank, Questions: []quiz.Question{validFIB()}}); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLStoreKeepsSubSecondTimes(t *testing.T) {
	ctx := context.Background()
	st := stores(t)["sql"]
	before := time.Now().Truncate(time.Microsecond)
	rec, err := st.Create(ctx, quiz.MultipleChoice, []quiz.Question{validMC()})
	if err != nil {
		t.Fatal(err)
	}
	if rec.CreatedAt.Before(before) {
		t.Fatalf("created_at %v truncated below %v", rec.CreatedAt, before)
	}
	got, err := st.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) || !got.UpdatedAt.Equal(rec.UpdatedAt) {
		t.Fatalf("times changed: %v/%v -> %v/%v", rec.CreatedAt, rec.UpdatedAt, got.CreatedAt, got.UpdatedAt)
	}
}
