package delivery

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mind-engage/mindengage-courses/internal/grading"
	"github.com/mind-engage/mindengage-courses/internal/progress"
	"github.com/mind-engage/mindengage-courses/internal/quiz"
)

// Feedback is revealed per question once a submission is scored.
type Feedback struct {
	Index         int    `json:"index"`
	Correct       bool   `json:"correct"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Justification string `json:"justification"`
}

type Submission struct {
	QuizID    string     `json:"quiz_id"`
	Score     float64    `json:"score"`
	Incorrect []int      `json:"incorrect_questions"`
	Feedback  []Feedback `json:"feedback"`
}

// Service connects stored quizzes to the progress tracker.
type Service struct {
	Quizzes  quiz.Store
	Progress *progress.Service
	Engine   *grading.Engine // nil uses the default engine
}

// TakeQuiz returns the quiz without its answer key.
func (s *Service) TakeQuiz(ctx context.Context, quizID string) (quiz.StudentQuiz, error) {
	rec, err := s.Quizzes.Get(ctx, quizID)
	if err != nil {
		return quiz.StudentQuiz{}, err
	}
	return rec.Quiz.StudentView(), nil
}

// SubmitQuiz scores answers against the stored quiz and records the attempt as the
// completion of sectionID.
func (s *Service) SubmitQuiz(ctx context.Context, courseID, sectionID, quizID string, answers map[string]string) (Submission, error) {
	rec, err := s.Quizzes.Get(ctx, quizID)
	if err != nil {
		return Submission{}, err
	}
	if answers == nil {
		answers = map[string]string{}
	}
	engine := s.Engine
	if engine == nil {
		engine = grading.NewEngine()
	}
	res := engine.Score(rec.Quiz.Questions, answers)

	recorded := make(map[string]any, len(answers))
	for k, v := range answers {
		recorded[k] = v
	}
	incorrect := make([]any, 0, len(res.Incorrect))
	for _, i := range res.Incorrect {
		incorrect = append(incorrect, i)
	}
	err = s.Progress.MarkSectionComplete(ctx, courseID, sectionID, progress.QuizData{
		"quiz_id":             quizID,
		"score":               res.Score,
		"answers":             recorded,
		"incorrect_questions": incorrect,
	})
	if err != nil {
		return Submission{}, fmt.Errorf("record attempt: %w", err)
	}

	return Submission{
		QuizID:    quizID,
		Score:     res.Score,
		Incorrect: res.Incorrect,
		Feedback:  feedback(engine, rec.Quiz.Questions, answers),
	}, nil
}

func feedback(engine *grading.Engine, questions []quiz.Question, answers map[string]string) []Feedback {
	out := make([]Feedback, 0, len(questions))
	for i, q := range questions {
		if q == nil {
			continue
		}
		ans := answers[strconv.Itoa(i)]
		fb := Feedback{
			Index:         i,
			Correct:       engine.Correct(q, ans),
			Answer:        ans,
			Justification: q.Explanation(),
		}
		switch v := q.(type) {
		case quiz.MultipleChoiceQuestion:
			fb.CorrectAnswer = v.CorrectOption()
		case quiz.FillInBlankQuestion:
			fb.CorrectAnswer = v.CorrectAnswer
		}
		out = append(out, fb)
	}
	return out
}
