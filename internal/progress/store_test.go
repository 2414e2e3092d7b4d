package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/mindengage-courses/internal/db"
	"github.com/mind-engage/mindengage-courses/internal/progress"
)

func stores(t *testing.T) map[string]progress.Store {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return map[string]progress.Store{
		"memory": progress.NewMemoryStore(),
		"sql":    progress.NewSQLStore(dbh),
		"redis":  progress.NewRedisStore(rdb),
	}
}

func TestStoreGetOrCreateIsStable(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a, err := st.GetOrCreate(ctx, "c1")
			if err != nil {
				t.Fatalf("first: %v", err)
			}
			b, err := st.GetOrCreate(ctx, "c1")
			if err != nil {
				t.Fatalf("second: %v", err)
			}
			if a.ID == "" || a.ID != b.ID {
				t.Fatalf("ids differ: %q vs %q", a.ID, b.ID)
			}
			if a.Completed || a.CompletedAt != nil || a.CurrentSectionIndex != 0 {
				t.Fatalf("fresh tracker not zeroed: %#v", a)
			}
			if a.SectionStatus == nil || a.QuizResults == nil {
				t.Fatal("maps must be initialised")
			}
		})
	}
}

func TestStoreSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 5, 6, 7, 8, 123456000, time.UTC)
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			tr, err := st.GetOrCreate(ctx, "c2")
			if err != nil {
				t.Fatal(err)
			}
			tr.CurrentSectionIndex = 4
			tr.Completed = true
			tr.CompletedAt = &now
			tr.LastAccessed = now
			tr.SectionStatus["s1"] = progress.Completed
			tr.QuizResults["s1"] = []progress.Attempt{{
				QuizID: "s1", Score: 50, CompletedAt: now,
				Answers: map[string]string{"0": "1"}, IncorrectQuestions: []int{1},
			}}
			if err := st.Save(ctx, tr); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err := st.GetOrCreate(ctx, "c2")
			if err != nil {
				t.Fatal(err)
			}
			if got.ID != tr.ID || got.CurrentSectionIndex != 4 || !got.Completed {
				t.Fatalf("unexpected %#v", got)
			}
			if got.CompletedAt == nil || !got.CompletedAt.Equal(now) || !got.LastAccessed.Equal(now) {
				t.Fatalf("times lost: %v %v", got.CompletedAt, got.LastAccessed)
			}
			if got.Status("s1") != progress.Completed {
				t.Fatalf("status lost")
			}
			atts := got.Attempts("s1")
			if len(atts) != 1 || atts[0].Score != 50 || atts[0].IncorrectQuestions[0] != 1 || !atts[0].CompletedAt.Equal(now) {
				t.Fatalf("attempts lost: %#v", atts)
			}
		})
	}
}

func TestServiceOverStores(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			svc := newService(st)
			if err := svc.StartSection(ctx, "c3", "intro", 1); err != nil {
				t.Fatal(err)
			}
			if err := svc.MarkSectionComplete(ctx, "c3", "intro", quizData()); err != nil {
				t.Fatal(err)
			}
			status, attempts, err := svc.SectionProgress(ctx, "c3", "intro")
			if err != nil {
				t.Fatal(err)
			}
			if status != progress.Completed || len(attempts) != 1 {
				t.Fatalf("status=%s attempts=%d", status, len(attempts))
			}
		})
	}
}
