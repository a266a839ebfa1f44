package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rowanvale/lexdrill/internal/api/middleware"
	"github.com/rowanvale/lexdrill/internal/api/shared"
)

// NewRouter assembles the API routes and middleware chain.
func NewRouter(study *StudyHandler, words *WordHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		shared.RespondWithJSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/study", func(r chi.Router) {
			r.Post("/sessions", study.StartSession)
			r.Get("/sessions/current/item", study.CurrentItem)
			r.Post("/sessions/current/ratings", study.SubmitRating)
			r.Get("/history", study.GetHistory)
		})

		r.Route("/words", func(r chi.Router) {
			r.Get("/starred", words.ListStarred)
			r.Post("/{id}/star", words.ToggleStar)
			r.Get("/{id}/retrievability", words.GetRetrievability)
		})

		r.Get("/lists", words.ListWordLists)
	})

	return r
}
