package progress

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// QuizData is the raw attempt payload recorded when a quiz section is completed.
// Required keys: quiz_id, score, answers, incorrect_questions.
type QuizData map[string]any

var requiredFields = []string{"quiz_id", "score", "answers", "incorrect_questions"}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required attempt field: " + e.Field
}

type InvalidFieldError struct {
	Field string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid attempt field %s: %v", e.Field, e.Err)
}

func (e *InvalidFieldError) Unwrap() error { return e.Err }

// NewAttempt builds an attempt completed at the given time.
// Nothing is returned unless every required field is present and well formed.
func NewAttempt(data QuizData, completedAt time.Time) (Attempt, error) {
	for _, k := range requiredFields {
		if v, ok := data[k]; !ok || v == nil {
			return Attempt{}, &MissingFieldError{Field: k}
		}
	}
	quizID, err := stringify(data["quiz_id"])
	if err != nil {
		return Attempt{}, &InvalidFieldError{Field: "quiz_id", Err: err}
	}
	score, err := toFloat(data["score"])
	if err == nil {
		err = checkScore(score)
	}
	if err != nil {
		return Attempt{}, &InvalidFieldError{Field: "score", Err: err}
	}
	answers, err := toAnswers(data["answers"])
	if err != nil {
		return Attempt{}, &InvalidFieldError{Field: "answers", Err: err}
	}
	incorrect, err := toIndices(data["incorrect_questions"])
	if err != nil {
		return Attempt{}, &InvalidFieldError{Field: "incorrect_questions", Err: err}
	}
	return Attempt{
		QuizID:             quizID,
		Score:              score,
		CompletedAt:        completedAt.UTC(),
		Answers:            answers,
		IncorrectQuestions: incorrect,
	}, nil
}

func stringify(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// checkScore accepts finite percentages only.
func checkScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 100 {
		return fmt.Errorf("score %v is outside 0-100", score)
	}
	return nil
}

func toAnswers(v any) (map[string]string, error) {
	switch x := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(x))
		for k, s := range x {
			out[k] = s
		}
		return out, nil
	case map[string]any:
		out := make(map[string]string, len(x))
		for k, raw := range x {
			s, err := stringify(raw)
			if err != nil {
				return nil, fmt.Errorf("answer %q: %w", k, err)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func toIndices(v any) ([]int, error) {
	switch x := v.(type) {
	case []int:
		for _, i := range x {
			if err := checkIndex(int64(i)); err != nil {
				return nil, err
			}
		}
		return append([]int{}, x...), nil
	case []any:
		out := make([]int, 0, len(x))
		for _, raw := range x {
			i, err := toIndex(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, i)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func toIndex(v any) (int, error) {
	var i int64
	switch x := v.(type) {
	case int:
		i = int64(x)
	case int64:
		i = x
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, err
		}
		i = n
	case float64:
		if x != math.Trunc(x) || x < 0 || x > math.MaxInt32 {
			return 0, fmt.Errorf("index %v is not a question index", x)
		}
		i = int64(x)
	default:
		return 0, fmt.Errorf("unsupported index type %T", v)
	}
	if err := checkIndex(i); err != nil {
		return 0, err
	}
	return int(i), nil
}

func checkIndex(i int64) error {
	if i < 0 || i > math.MaxInt32 {
		return fmt.Errorf("index %d is not a question index", i)
	}
	return nil
}
