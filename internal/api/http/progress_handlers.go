package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-courses/internal/delivery"
	"github.com/mind-engage/mindengage-courses/internal/progress"
	syncx "github.com/mind-engage/mindengage-courses/internal/sync"
)

// EventLister reads back the event log for a course.
type EventLister interface {
	List(ctx context.Context, key string, limit int) ([]syncx.Event, error)
}

type startSectionReq struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

type completeSectionReq struct {
	QuizData progress.QuizData `json:"quiz_data"`
}

type submitQuizReq struct {
	Answers map[string]string `json:"answers" validate:"required,dive,keys,numeric,endkeys"`
}

// GET /courses/{courseID}/progress
func GetProgressHandler(svc *progress.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Progress(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// GET /courses/{courseID}/current-section
func CurrentSectionHandler(svc *progress.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := svc.CurrentSectionIndex(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"current_section_index": idx})
	}
}

// GET /courses/{courseID}/sections/{sectionID}
func SectionProgressHandler(svc *progress.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		status, attempts, err := svc.SectionProgress(r.Context(), chi.URLParam(r, "courseID"), sectionID)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"section_id": sectionID,
			"status":     status,
			"attempts":   attempts,
		})
	}
}

// GET /courses/{courseID}/sections/{sectionID}/attempts
func QuizAttemptsHandler(svc *progress.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attempts, err := svc.QuizAttempts(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "sectionID"))
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, attempts)
	}
}

// POST /courses/{courseID}/sections/{sectionID}/start {index}
func StartSectionHandler(svc *progress.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startSectionReq
		if !decode(w, r, &req, false) {
			return
		}
		if err := svc.StartSection(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "sectionID"), *req.Index); err != nil {
			fail(log, w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /courses/{courseID}/sections/{sectionID}/complete {quiz_data?}
func CompleteSectionHandler(svc *progress.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeSectionReq
		if !decode(w, r, &req, true) {
			return
		}
		if err := svc.MarkSectionComplete(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "sectionID"), req.QuizData); err != nil {
			fail(log, w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /courses/{courseID}/sections/{sectionID}/quizzes/{quizID}/submit {answers}
func SubmitQuizHandler(svc *delivery.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitQuizReq
		if !decode(w, r, &req, false) {
			return
		}
		sub, err := svc.SubmitQuiz(r.Context(),
			chi.URLParam(r, "courseID"), chi.URLParam(r, "sectionID"), chi.URLParam(r, "quizID"), req.Answers)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

// POST /courses/{courseID}/complete
func CompleteCourseHandler(svc *progress.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.MarkCourseCompleted(r.Context(), chi.URLParam(r, "courseID")); err != nil {
			fail(log, w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /courses/{courseID}/events?limit=N
func ListEventsHandler(events EventLister, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := events.List(r.Context(), chi.URLParam(r, "courseID"), limit)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
