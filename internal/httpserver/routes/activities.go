package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nsommier/hoard/internal/httpserver/deps"
	"github.com/nsommier/hoard/internal/httpserver/handlers"
)

func init() { Register(registerActivities) }

func registerActivities(r chi.Router, d deps.Deps) {
	r.Get("/api/activities", handlers.ListActivities(d))
}
