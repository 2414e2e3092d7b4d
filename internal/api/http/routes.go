package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	auth "github.com/mind-engage/mindengage-courses/internal/auth/middleware"
	"github.com/mind-engage/mindengage-courses/internal/delivery"
	"github.com/mind-engage/mindengage-courses/internal/progress"
	"github.com/mind-engage/mindengage-courses/internal/quiz"
	"github.com/mind-engage/mindengage-courses/internal/rbac"
)

type Deps struct {
	Auth     *auth.AuthService
	Quizzes  *quiz.Service
	Progress *progress.Service
	Delivery *delivery.Service
	Events   EventLister // optional
	Ready    func() error
	Log      *zap.Logger
}

// Mount registers the login, quiz, progress and health routes on r.
func Mount(r chi.Router, d Deps) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r.Post("/auth/login", auth.LoginHandler(d.Auth))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		// authoring
		pr.With(rbac.Require("quiz:create")).Post("/quizzes", CreateQuizHandler(d.Quizzes, log))
		pr.With(rbac.Require("quiz:validate")).Post("/quizzes/validate", ValidateQuizHandler(log))
		pr.With(rbac.Require("quiz:update")).Put("/quizzes/{quizID}", UpdateQuizHandler(d.Quizzes, log))
		pr.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}", GetQuizHandler(d.Quizzes, log))

		// delivery
		pr.With(rbac.Require("quiz:take")).Get("/quizzes/{quizID}/take", TakeQuizHandler(d.Delivery, log))

		pr.Route("/courses/{courseID}", func(cr chi.Router) {
			cr.With(rbac.Require("progress:view")).Get("/progress", GetProgressHandler(d.Progress, log))
			cr.With(rbac.Require("progress:view")).Get("/current-section", CurrentSectionHandler(d.Progress, log))
			cr.With(rbac.Require("progress:view")).Get("/sections/{sectionID}", SectionProgressHandler(d.Progress, log))
			cr.With(rbac.Require("progress:view")).Get("/sections/{sectionID}/attempts", QuizAttemptsHandler(d.Progress, log))
			cr.With(rbac.Require("progress:update")).Post("/sections/{sectionID}/start", StartSectionHandler(d.Progress, log))
			cr.With(rbac.Require("progress:update")).Post("/sections/{sectionID}/complete", CompleteSectionHandler(d.Progress, log))
			cr.With(rbac.Require("quiz:submit")).
				Post("/sections/{sectionID}/quizzes/{quizID}/submit", SubmitQuizHandler(d.Delivery, log))
			cr.With(rbac.Require("progress:update")).Post("/complete", CompleteCourseHandler(d.Progress, log))
			if d.Events != nil {
				cr.With(rbac.RequireAny("events:view", "progress:view")).Get("/events", ListEventsHandler(d.Events, log))
			}
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				log.Warn("not ready", zap.Error(err))
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}
