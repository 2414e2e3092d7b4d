package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courses/internal/delivery"
	"github.com/mind-engage/mindengage-courses/internal/quiz"
)

// readQuiz decodes a {type, questions} body.
func readQuiz(w http.ResponseWriter, r *http.Request) (quiz.Quiz, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return quiz.Quiz{}, &quiz.MalformedRecordError{Reason: err.Error()}
	}
	return quiz.DecodeQuiz(body)
}

// POST /quizzes
func CreateQuizHandler(svc *quiz.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qz, err := readQuiz(w, r)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		rec, err := svc.Create(r.Context(), qz)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

// PUT /quizzes/{quizID}
func UpdateQuizHandler(svc *quiz.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qz, err := readQuiz(w, r)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		rec, err := svc.Update(r.Context(), chi.URLParam(r, "quizID"), qz)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// GET /quizzes/{quizID} returns the full record including answer keys.
func GetQuizHandler(svc *quiz.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// POST /quizzes/validate checks a draft without saving it.
func ValidateQuizHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qz, err := readQuiz(w, r)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"valid":       qz.Validate(),
			"homogeneous": qz.Homogeneous(),
			"problems":    qz.Problems(),
		})
	}
}

// GET /quizzes/{quizID}/take
func TakeQuizHandler(svc *delivery.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.TakeQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
