package handlers

import (
	"net/http"

	"github.com/nsommier/hoard/internal/httpserver/deps"
)

// TriggerImport handles POST /api/import/reload. The actual import runs on
// the scheduler goroutine; the handler only nudges it.
func TriggerImport(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: "bulk import not configured"})
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			respondJSON(w, http.StatusAccepted, map[string]string{"status": "import triggered"})
		default:
			// a trigger is already pending
			respondJSON(w, http.StatusAccepted, map[string]string{"status": "import already pending"})
		}
	}
}
