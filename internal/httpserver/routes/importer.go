package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/nsommier/hoard/internal/httpserver/deps"
	"github.com/nsommier/hoard/internal/httpserver/handlers"
)

func init() { Register(registerImporter) }

func registerImporter(r chi.Router, d deps.Deps) {
	r.Post("/api/import/reload", handlers.TriggerImport(d))
}
