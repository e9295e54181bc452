package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/cards", s.handleCreateCard)
		r.Get("/cards/due", s.handleDueCards)
		r.Get("/cards/{id}", s.handleGetCard)
		r.Post("/cards/{id}/preview", s.handlePreviewReview)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/current/card", s.handleCurrentCard)
		r.Post("/sessions/current/reviews", s.handleReviewCard)
		r.Post("/sessions/current/skips", s.handleSkipCard)
		r.Post("/sessions/current/end", s.handleEndSession)

		r.Get("/stats", s.handleLearningStats)
	})

	return r
}
