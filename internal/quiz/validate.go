package quiz

import (
	"fmt"
	"strings"
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (q MultipleChoiceQuestion) Validate() bool {
	return len(q.Options) > 1 &&
		q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) &&
		!blank(q.Question) &&
		!blank(q.Justification)
}

func (q FillInBlankQuestion) Validate() bool {
	_, _, ok := q.Parts()
	return ok &&
		!blank(q.CorrectAnswer) &&
		!blank(q.Question) &&
		!blank(q.Justification)
}

// Validate reports whether q is a structurally valid question. A nil question is invalid.
func Validate(q Question) bool {
	switch v := q.(type) {
	case MultipleChoiceQuestion:
		return v.Validate()
	case FillInBlankQuestion:
		return v.Validate()
	default:
		return false
	}
}

// Validate is false for an empty quiz, otherwise true iff every question is valid.
// It does not check that questions match qz.Type; see Homogeneous.
func (qz Quiz) Validate() bool {
	if len(qz.Questions) == 0 {
		return false
	}
	for _, q := range qz.Questions {
		if !Validate(q) {
			return false
		}
	}
	return true
}

// Homogeneous reports whether every question is of the quiz's type.
func (qz Quiz) Homogeneous() bool {
	for _, q := range qz.Questions {
		if q == nil || q.Kind() != qz.Type {
			return false
		}
	}
	return true
}

// Problem is an advisory message about one question. Index -1 refers to the quiz itself.
type Problem struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Problems lists what the author has to fix before the quiz can be saved.
func (qz Quiz) Problems() []Problem {
	out := []Problem{}
	if !qz.Type.Valid() {
		out = append(out, Problem{Index: -1, Message: fmt.Sprintf("unknown quiz type %q", qz.Type)})
	}
	if len(qz.Questions) == 0 {
		out = append(out, Problem{Index: -1, Message: "quiz has no questions"})
	}
	for i, q := range qz.Questions {
		for _, msg := range questionProblems(q) {
			out = append(out, Problem{Index: i, Message: msg})
		}
	}
	return out
}

func questionProblems(q Question) []string {
	var msgs []string
	switch v := q.(type) {
	case MultipleChoiceQuestion:
		if blank(v.Question) {
			msgs = append(msgs, "question text is required")
		}
		if len(v.Options) < 2 {
			msgs = append(msgs, "at least two options are required")
		}
		if v.CorrectAnswer < 0 || v.CorrectAnswer >= len(v.Options) {
			msgs = append(msgs, "correct answer must point at one of the options")
		}
		if blank(v.Justification) {
			msgs = append(msgs, "justification is required")
		}
	case FillInBlankQuestion:
		if blank(v.Question) {
			msgs = append(msgs, "question text is required")
		}
		if _, _, ok := v.Parts(); !ok {
			msgs = append(msgs, "question must contain exactly one '"+BlankMarker+"' marking the blank")
		}
		if blank(v.CorrectAnswer) {
			msgs = append(msgs, "correct answer is required")
		}
		if blank(v.Justification) {
			msgs = append(msgs, "justification is required")
		}
	default:
		msgs = append(msgs, "unsupported question")
	}
	return msgs
}
