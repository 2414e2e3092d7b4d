package progress_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-courses/internal/progress"
)

func TestAttemptJSONShape(t *testing.T) {
	a := progress.Attempt{QuizID: "q1", Score: 100, CompletedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	got := string(b)
	for _, want := range []string{`"completed_at":"2026-01-02T03:04:05Z"`, `"answers":{}`, `"incorrect_questions":[]`} {
		if !strings.Contains(got, want) {
			t.Fatalf("%s missing %s", got, want)
		}
	}
}

func TestAttemptReadsNaiveTimestamp(t *testing.T) {
	raw := `{"quiz_id":"q1","score":50,"completed_at":"2024-05-06T07:08:09.123456","answers":{"0":"1"},"incorrect_questions":[0]}`
	var a progress.Attempt
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 5, 6, 7, 8, 9, 123456000, time.UTC)
	if !a.CompletedAt.Equal(want) {
		t.Fatalf("completed_at = %v, want %v", a.CompletedAt, want)
	}
}

func TestAttemptRejectsBadTimestamp(t *testing.T) {
	var a progress.Attempt
	raw := `{"quiz_id":"q1","score":50,"completed_at":"yesterday","answers":{},"incorrect_questions":[]}`
	err := json.Unmarshal([]byte(raw), &a)
	var inv *progress.InvalidFieldError
	if !errors.As(err, &inv) || inv.Field != "completed_at" {
		t.Fatalf("want invalid completed_at, got %v", err)
	}
}

func TestAttemptDecodeRequiresEveryKey(t *testing.T) {
	full := map[string]string{
		"quiz_id":             `"q1"`,
		"score":               `50`,
		"completed_at":        `"2024-01-01T00:00:00Z"`,
		"answers":             `{"0":"1"}`,
		"incorrect_questions": `[1]`,
	}
	for key := range full {
		for _, mode := range []string{"absent", "null"} {
			t.Run(key+"/"+mode, func(t *testing.T) {
				parts := make([]string, 0, len(full))
				for k, v := range full {
					switch {
					case k != key:
						parts = append(parts, `"`+k+`":`+v)
					case mode == "null":
						parts = append(parts, `"`+k+`":null`)
					}
				}
				a := progress.Attempt{QuizID: "untouched"}
				err := json.Unmarshal([]byte("{"+strings.Join(parts, ",")+"}"), &a)
				var mf *progress.MissingFieldError
				if !errors.As(err, &mf) || mf.Field != key {
					t.Fatalf("want missing %s, got %v", key, err)
				}
				if a.QuizID != "untouched" {
					t.Fatalf("attempt modified on error: %#v", a)
				}
			})
		}
	}
}

func TestAttemptDecodeRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"score":               `{"quiz_id":"q","score":150,"completed_at":"2024-01-01T00:00:00Z","answers":{},"incorrect_questions":[]}`,
		"incorrect_questions": `{"quiz_id":"q","score":50,"completed_at":"2024-01-01T00:00:00Z","answers":{},"incorrect_questions":[-1]}`,
		"answers":             `{"quiz_id":"q","score":50,"completed_at":"2024-01-01T00:00:00Z","answers":[],"incorrect_questions":[]}`,
	}
	for field, raw := range cases {
		var a progress.Attempt
		err := json.Unmarshal([]byte(raw), &a)
		var inv *progress.InvalidFieldError
		if !errors.As(err, &inv) || inv.Field != field {
			t.Errorf("%s: got %v", field, err)
		}
	}
}

func TestNewAttemptConversions(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600))
	a, err := progress.NewAttempt(progress.QuizData{
		"quiz_id":             7,
		"score":               json.Number("66.5"),
		"answers":             map[string]string{"0": "a"},
		"incorrect_questions": []int{2},
	}, at)
	if err != nil {
		t.Fatal(err)
	}
	if a.QuizID != "7" || a.Score != 66.5 || a.Answers["0"] != "a" || a.IncorrectQuestions[0] != 2 {
		t.Fatalf("unexpected %#v", a)
	}
	if a.CompletedAt.Location() != time.UTC {
		t.Fatal("completed_at not UTC")
	}
}

func TestNewAttemptRejects(t *testing.T) {
	base := func() progress.QuizData {
		return progress.QuizData{
			"quiz_id": "q", "score": 1.0, "answers": map[string]any{}, "incorrect_questions": []any{},
		}
	}
	cases := map[string]struct {
		mut     func(progress.QuizData)
		missing string
		invalid string
	}{
		"no quiz_id":       {mut: func(d progress.QuizData) { delete(d, "quiz_id") }, missing: "quiz_id"},
		"nil answers":      {mut: func(d progress.QuizData) { d["answers"] = nil }, missing: "answers"},
		"fractional index": {mut: func(d progress.QuizData) { d["incorrect_questions"] = []any{1.5} }, invalid: "incorrect_questions"},
		"answers list":     {mut: func(d progress.QuizData) { d["answers"] = []any{"x"} }, invalid: "answers"},
		"quiz_id object":   {mut: func(d progress.QuizData) { d["quiz_id"] = map[string]any{} }, invalid: "quiz_id"},
		"NaN score":        {mut: func(d progress.QuizData) { d["score"] = "NaN" }, invalid: "score"},
		"infinite score":   {mut: func(d progress.QuizData) { d["score"] = math.Inf(1) }, invalid: "score"},
		"score too high":   {mut: func(d progress.QuizData) { d["score"] = 1e6 }, invalid: "score"},
		"negative score":   {mut: func(d progress.QuizData) { d["score"] = -1 }, invalid: "score"},
		"negative index":   {mut: func(d progress.QuizData) { d["incorrect_questions"] = []any{-7.0} }, invalid: "incorrect_questions"},
		"negative int":     {mut: func(d progress.QuizData) { d["incorrect_questions"] = []int{-1} }, invalid: "incorrect_questions"},
		"huge index":       {mut: func(d progress.QuizData) { d["incorrect_questions"] = []any{1e20} }, invalid: "incorrect_questions"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := base()
			tc.mut(d)
			_, err := progress.NewAttempt(d, time.Now())
			var mf *progress.MissingFieldError
			var inv *progress.InvalidFieldError
			switch {
			case tc.missing != "":
				if !errors.As(err, &mf) || mf.Field != tc.missing {
					t.Fatalf("want missing %s, got %v", tc.missing, err)
				}
			default:
				if !errors.As(err, &inv) || inv.Field != tc.invalid {
					t.Fatalf("want invalid %s, got %v", tc.invalid, err)
				}
			}
		})
	}
}

func TestTrackerJSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 2, 2, 2, 2, 2, 0, time.UTC)
	tr := progress.Tracker{
		ID: "t1", CourseID: "c1", LastAccessed: now, CompletedAt: &now, Completed: true,
		SectionStatus: map[string]progress.SectionStatus{"s1": progress.Completed},
		QuizResults: map[string][]progress.Attempt{
			"s1": {{QuizID: "s1", Score: 100, CompletedAt: now, Answers: map[string]string{"0": "x"}, IncorrectQuestions: []int{}}},
		},
	}
	b, err := json.Marshal(tr)
	if err != nil {
		t.Fatal(err)
	}
	var back progress.Tracker
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.Status("s1") != progress.Completed || back.Status("other") != progress.NotStarted {
		t.Fatalf("status lost: %#v", back.SectionStatus)
	}
	if got := back.Attempts("s1"); len(got) != 1 || got[0].Answers["0"] != "x" {
		t.Fatalf("attempts lost: %#v", got)
	}
}
