package quiz

// StudentQuestion is a question as shown before submission: no answer key, no justification.
type StudentQuestion struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Before   string   `json:"before,omitempty"`
	After    string   `json:"after,omitempty"`
}

type StudentQuiz struct {
	Type       Type              `json:"type"`
	Questions  []StudentQuestion `json:"questions"`
	AnswerPool []string          `json:"answer_pool,omitempty"`
}

// StudentView strips answer keys. Fill-in-the-blank prompts are split around the blank
// and the answer pool is attached.
func (qz Quiz) StudentView() StudentQuiz {
	out := StudentQuiz{Type: qz.Type, Questions: make([]StudentQuestion, 0, len(qz.Questions))}
	for i, q := range qz.Questions {
		sq := StudentQuestion{Index: i}
		switch v := q.(type) {
		case MultipleChoiceQuestion:
			sq.Question = v.Question
			sq.Options = append([]string(nil), v.Options...)
		case FillInBlankQuestion:
			sq.Question = v.Question
			if before, after, ok := v.Parts(); ok {
				sq.Before, sq.After = before, after
			}
		default:
			continue
		}
		out.Questions = append(out.Questions, sq)
	}
	if qz.Type == FillInTheBlank {
		out.AnswerPool = qz.AnswerPool()
	}
	return out
}
