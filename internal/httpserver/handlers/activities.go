package handlers

import (
	"net/http"
	"strconv"

	"github.com/nsommier/hoard/internal/httpserver/deps"
)

const defaultActivityLimit = 50

// ListActivities handles GET /api/activities?user=...&limit=N.
func ListActivities(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultActivityLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		list, err := d.Service.Activities(r.Context(), r.URL.Query().Get("user"), limit)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}
