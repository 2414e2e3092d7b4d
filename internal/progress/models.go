package progress

import (
	"encoding/json"
	"fmt"
	"time"
)

type SectionStatus string

const (
	NotStarted SectionStatus = "not_started"
	InProgress SectionStatus = "in_progress"
	Completed  SectionStatus = "completed"
)

// Attempt is one scored quiz submission. It is appended to a tracker and never changed.
type Attempt struct {
	QuizID             string
	Score              float64
	CompletedAt        time.Time
	Answers            map[string]string // question index -> submitted answer
	IncorrectQuestions []int
}

type attemptJSON struct {
	QuizID             string            `json:"quiz_id"`
	Score              float64           `json:"score"`
	CompletedAt        string            `json:"completed_at"`
	Answers            map[string]string `json:"answers"`
	IncorrectQuestions []int             `json:"incorrect_questions"`
}

var attemptKeys = []string{"quiz_id", "score", "completed_at", "answers", "incorrect_questions"}

// legacyTimestamp is ISO-8601 without an offset, as written by earlier deployments.
const legacyTimestamp = "2006-01-02T15:04:05.999999999"

func (a Attempt) MarshalJSON() ([]byte, error) {
	out := attemptJSON{
		QuizID:             a.QuizID,
		Score:              a.Score,
		CompletedAt:        a.CompletedAt.UTC().Format(time.RFC3339Nano),
		Answers:            a.Answers,
		IncorrectQuestions: a.IncorrectQuestions,
	}
	if out.Answers == nil {
		out.Answers = map[string]string{}
	}
	if out.IncorrectQuestions == nil {
		out.IncorrectQuestions = []int{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON rejects records that lack a required key or carry a malformed one.
func (a *Attempt) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range attemptKeys {
		if v, ok := raw[k]; !ok || string(v) == "null" {
			return &MissingFieldError{Field: k}
		}
	}
	var in attemptJSON
	for _, f := range []struct {
		key string
		dst any
	}{
		{"quiz_id", &in.QuizID},
		{"score", &in.Score},
		{"completed_at", &in.CompletedAt},
		{"answers", &in.Answers},
		{"incorrect_questions", &in.IncorrectQuestions},
	} {
		if err := json.Unmarshal(raw[f.key], f.dst); err != nil {
			return &InvalidFieldError{Field: f.key, Err: err}
		}
	}
	if err := checkScore(in.Score); err != nil {
		return &InvalidFieldError{Field: "score", Err: err}
	}
	for _, i := range in.IncorrectQuestions {
		if err := checkIndex(int64(i)); err != nil {
			return &InvalidFieldError{Field: "incorrect_questions", Err: err}
		}
	}
	at, err := parseTimestamp(in.CompletedAt)
	if err != nil {
		return &InvalidFieldError{Field: "completed_at", Err: err}
	}
	*a = Attempt{
		QuizID:             in.QuizID,
		Score:              in.Score,
		CompletedAt:        at,
		Answers:            in.Answers,
		IncorrectQuestions: in.IncorrectQuestions,
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(legacyTimestamp, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("completed_at %q: not an ISO-8601 timestamp", s)
	}
	return t, nil
}

// Tracker is a student's navigation and completion state for one course.
type Tracker struct {
	ID                  string                   `json:"id"`
	CourseID            string                   `json:"course_id"`
	LastAccessed        time.Time                `json:"last_accessed"`
	CurrentSectionIndex int                      `json:"current_section_index"`
	Completed           bool                     `json:"completed"`
	CompletedAt         *time.Time               `json:"completed_at"`
	SectionStatus       map[string]SectionStatus `json:"section_status"`
	QuizResults         map[string][]Attempt     `json:"quiz_results"`
}

func newTracker(id, courseID string, now time.Time) *Tracker {
	return &Tracker{
		ID:            id,
		CourseID:      courseID,
		LastAccessed:  now,
		SectionStatus: map[string]SectionStatus{},
		QuizResults:   map[string][]Attempt{},
	}
}

// Status returns the section's status, NotStarted when unknown.
func (t *Tracker) Status(sectionID string) SectionStatus {
	if st, ok := t.SectionStatus[sectionID]; ok {
		return st
	}
	return NotStarted
}

// Attempts returns the section's attempt history, oldest first. Never nil.
func (t *Tracker) Attempts(sectionID string) []Attempt {
	src := t.QuizResults[sectionID]
	out := make([]Attempt, 0, len(src))
	for _, a := range src {
		out = append(out, a.clone())
	}
	return out
}

func (a Attempt) clone() Attempt {
	if a.Answers != nil {
		ans := make(map[string]string, len(a.Answers))
		for k, v := range a.Answers {
			ans[k] = v
		}
		a.Answers = ans
	}
	if a.IncorrectQuestions != nil {
		a.IncorrectQuestions = append([]int{}, a.IncorrectQuestions...)
	}
	return a
}

func (t *Tracker) clone() *Tracker {
	out := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	out.SectionStatus = make(map[string]SectionStatus, len(t.SectionStatus))
	for k, v := range t.SectionStatus {
		out.SectionStatus[k] = v
	}
	out.QuizResults = make(map[string][]Attempt, len(t.QuizResults))
	for k := range t.QuizResults {
		out.QuizResults[k] = t.Attempts(k)
	}
	return &out
}

// normalize fills maps that a decoded record may lack.
func (t *Tracker) normalize() {
	if t.SectionStatus == nil {
		t.SectionStatus = map[string]SectionStatus{}
	}
	if t.QuizResults == nil {
		t.QuizResults = map[string][]Attempt{}
	}
}
