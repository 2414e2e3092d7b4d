package quiz

import (
	"encoding/json"
	"fmt"
)

// MalformedRecordError is returned when a stored quiz or question cannot be decoded.
// A partially decoded question is never returned alongside it.
type MalformedRecordError struct {
	Key    string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Key == "" {
		return "malformed quiz record: " + e.Reason
	}
	return fmt.Sprintf("malformed quiz record: %s: %s", e.Key, e.Reason)
}

type quizRecord struct {
	Type      Type       `json:"type"`
	Questions []Question `json:"questions"`
}

func (qz Quiz) MarshalJSON() ([]byte, error) {
	qs := qz.Questions
	if qs == nil {
		qs = []Question{}
	}
	return json.Marshal(quizRecord{Type: qz.Type, Questions: qs})
}

func (qz *Quiz) UnmarshalJSON(data []byte) error {
	out, err := DecodeQuiz(data)
	if err != nil {
		return err
	}
	*qz = out
	return nil
}

// EncodeQuiz returns the persisted shape {type, questions}.
func EncodeQuiz(qz Quiz) ([]byte, error) {
	return json.Marshal(qz)
}

// DecodeQuiz parses a quiz record, picking the question variant from its type tag.
func DecodeQuiz(data []byte) (Quiz, error) {
	raw, err := object(data)
	if err != nil {
		return Quiz{}, err
	}
	var t Type
	if err := field(raw, "type", &t); err != nil {
		return Quiz{}, err
	}
	if !t.Valid() {
		return Quiz{}, &MalformedRecordError{Key: "type", Reason: fmt.Sprintf("unknown quiz type %q", t)}
	}
	var items []json.RawMessage
	if err := field(raw, "questions", &items); err != nil {
		return Quiz{}, err
	}
	qz := Quiz{Type: t, Questions: make([]Question, 0, len(items))}
	for i, item := range items {
		q, err := DecodeQuestion(t, item)
		if err != nil {
			if me, ok := err.(*MalformedRecordError); ok {
				me.Key = fmt.Sprintf("questions[%d].%s", i, me.Key)
			}
			return Quiz{}, err
		}
		qz.Questions = append(qz.Questions, q)
	}
	return qz, nil
}

// DecodeQuestion parses a single question record of the given variant.
func DecodeQuestion(t Type, data []byte) (Question, error) {
	raw, err := object(data)
	if err != nil {
		return nil, err
	}
	var prompt, justification string
	if err := field(raw, "question", &prompt); err != nil {
		return nil, err
	}
	if err := field(raw, "justification", &justification); err != nil {
		return nil, err
	}
	switch t {
	case MultipleChoice:
		q := MultipleChoiceQuestion{Question: prompt, Justification: justification}
		if err := field(raw, "options", &q.Options); err != nil {
			return nil, err
		}
		if err := field(raw, "correct_answer", &q.CorrectAnswer); err != nil {
			return nil, err
		}
		return q, nil
	case FillInTheBlank:
		q := FillInBlankQuestion{Question: prompt, Justification: justification}
		if err := field(raw, "correct_answer", &q.CorrectAnswer); err != nil {
			return nil, err
		}
		return q, nil
	default:
		return nil, &MalformedRecordError{Key: "type", Reason: fmt.Sprintf("unknown quiz type %q", t)}
	}
}

func object(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedRecordError{Reason: err.Error()}
	}
	if raw == nil {
		return nil, &MalformedRecordError{Reason: "record is null"}
	}
	return raw, nil
}

// field decodes raw[key] into dst. Absent and null keys are both missing.
func field(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return &MalformedRecordError{Key: key, Reason: "required key missing"}
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return &MalformedRecordError{Key: key, Reason: err.Error()}
	}
	return nil
}
