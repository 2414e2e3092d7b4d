package grading

import (
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-courses/internal/quiz"
)

// Result is the outcome of scoring one submission.
type Result struct {
	Score     float64 `json:"score"`               // percentage, 0-100
	Incorrect []int   `json:"incorrect_questions"` // ascending question indices
}

// Strategy decides whether a single submitted answer is correct.
// answer is never empty when Correct is called.
type Strategy interface {
	Correct(q quiz.Question, answer string) bool
}

// Engine routes each question to the Strategy registered for its kind.
type Engine struct {
	strategies map[quiz.Type]Strategy
}

type Option func(*Engine)

// WithStrategy overrides the strategy used for one question kind.
func WithStrategy(t quiz.Type, s Strategy) Option {
	return func(e *Engine) { e.strategies[t] = s }
}

// NewEngine installs the built-in strategies.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		strategies: map[quiz.Type]Strategy{
			quiz.MultipleChoice: multipleChoiceStrategy{},
			quiz.FillInTheBlank: fillInBlankStrategy{},
		},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Score grades answers (keyed by the question index as a decimal string) with the default engine.
func Score(questions []quiz.Question, answers map[string]string) Result {
	return defaultEngine.Score(questions, answers)
}

// Score is pure. Missing, empty or unparseable answers count as incorrect.
// An empty question list scores 0 with no incorrect indices.
func (e *Engine) Score(questions []quiz.Question, answers map[string]string) Result {
	res := Result{Incorrect: []int{}}
	total := len(questions)
	if total == 0 {
		return res
	}
	correct := 0
	for i, q := range questions {
		if e.correct(q, answers[strconv.Itoa(i)]) {
			correct++
			continue
		}
		res.Incorrect = append(res.Incorrect, i)
	}
	res.Score = (float64(correct) / float64(total)) * 100
	return res
}

// Correct reports whether answer is right for q.
func (e *Engine) Correct(q quiz.Question, answer string) bool {
	return e.correct(q, answer)
}

func (e *Engine) correct(q quiz.Question, answer string) bool {
	if q == nil || answer == "" {
		return false
	}
	s, ok := e.strategies[q.Kind()]
	if !ok {
		return false
	}
	return s.Correct(q, answer)
}

// --- Strategies ---

type multipleChoiceStrategy struct{}

// Correct compares the submitted option index with the key. Non-integers are wrong.
func (multipleChoiceStrategy) Correct(q quiz.Question, answer string) bool {
	mc, ok := q.(quiz.MultipleChoiceQuestion)
	if !ok {
		return false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return false
	}
	return idx == mc.CorrectAnswer
}

type fillInBlankStrategy struct{}

func (fillInBlankStrategy) Correct(q quiz.Question, answer string) bool {
	fb, ok := q.(quiz.FillInBlankQuestion)
	if !ok {
		return false
	}
	return fold(answer) == fold(fb.CorrectAnswer)
}
