package quiz

import (
	"strings"
	"time"
)

// Type fixes which question variant every question of a quiz uses.
type Type string

const (
	MultipleChoice Type = "multiple_choice"
	FillInTheBlank Type = "fill_in_the_blank"
)

func (t Type) Valid() bool {
	return t == MultipleChoice || t == FillInTheBlank
}

// BlankMarker marks the gap in a fill-in-the-blank prompt.
const BlankMarker = "_____"

// Question is implemented by MultipleChoiceQuestion and FillInBlankQuestion only.
type Question interface {
	Kind() Type
	Prompt() string
	Explanation() string
	Validate() bool

	isQuestion()
}

type MultipleChoiceQuestion struct {
	Question      string   `json:"question"`
	Justification string   `json:"justification"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // index into Options
}

func (MultipleChoiceQuestion) Kind() Type            { return MultipleChoice }
func (q MultipleChoiceQuestion) Prompt() string      { return q.Question }
func (q MultipleChoiceQuestion) Explanation() string { return q.Justification }
func (MultipleChoiceQuestion) isQuestion()           {}

// CorrectOption returns the text of the correct option, or "" if the index is out of range.
func (q MultipleChoiceQuestion) CorrectOption() string {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswer]
}

type FillInBlankQuestion struct {
	Question      string `json:"question"`
	Justification string `json:"justification"`
	CorrectAnswer string `json:"correct_answer"`
}

func (FillInBlankQuestion) Kind() Type            { return FillInTheBlank }
func (q FillInBlankQuestion) Prompt() string      { return q.Question }
func (q FillInBlankQuestion) Explanation() string { return q.Justification }
func (FillInBlankQuestion) isQuestion()           {}

// Parts splits the prompt around the blank. ok is false unless there is exactly one blank.
func (q FillInBlankQuestion) Parts() (before, after string, ok bool) {
	parts := strings.Split(q.Question, BlankMarker)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type Quiz struct {
	Type      Type
	Questions []Question
}

// New returns an empty quiz of the given type.
func New(t Type) Quiz {
	return Quiz{Type: t, Questions: []Question{}}
}

// Record is a persisted quiz.
type Record struct {
	ID        string    `json:"id"`
	Quiz      Quiz      `json:"quiz"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
