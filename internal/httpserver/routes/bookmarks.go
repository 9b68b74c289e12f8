package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nsommier/hoard/internal/httpserver/deps"
	"github.com/nsommier/hoard/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Post("/", handlers.AcquireBookmark(d))
		r.Get("/", handlers.ListBookmarks(d))
		r.Get("/{id}", handlers.GetBookmark(d))
		r.Patch("/{id}", handlers.UpdateBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
		r.Get("/{id}/status", handlers.EnrichmentStatus(d))
		r.Get("/{id}/insight", handlers.GetInsight(d))
	})
}
