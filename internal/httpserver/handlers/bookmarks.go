package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nsommier/hoard/internal/bookmarks"
	"github.com/nsommier/hoard/internal/domain"
	"github.com/nsommier/hoard/internal/httpserver/deps"
	"github.com/nsommier/hoard/internal/logger"
)

type acquireRequest struct {
	URL          string   `json:"url"`
	UserID       string   `json:"user_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Content      string   `json:"content"`
	Source       string   `json:"source"`
	Tags         []string `json:"tags"`
	Notes        []string `json:"notes"`
	Highlights   []string `json:"highlights"`
	Screenshot   string   `json:"screenshot"`
	AutoEnrich   bool     `json:"auto_enrich"`
	InsightDepth int      `json:"insight_depth"`
}

type acquireResponse struct {
	Bookmark   *domain.Bookmark `json:"bookmark"`
	IsExisting bool             `json:"is_existing"`
	WasUpdated bool             `json:"was_updated"`
}

// AcquireBookmark handles POST /api/bookmarks.
func AcquireBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req acquireRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
			return
		}

		res, err := d.Service.Acquire(r.Context(), bookmarks.AcquireOptions{
			URL:          req.URL,
			UserID:       req.UserID,
			Title:        req.Title,
			Description:  req.Description,
			Content:      req.Content,
			Source:       domain.Source(req.Source),
			Tags:         req.Tags,
			Notes:        req.Notes,
			Highlights:   req.Highlights,
			Screenshot:   req.Screenshot,
			AutoEnrich:   req.AutoEnrich,
			InsightDepth: req.InsightDepth,
		})
		if err != nil {
			d.Logger.Warn("acquire failed",
				logger.String("url", req.URL),
				logger.Error(err))
			respondError(w, err)
			return
		}

		status := http.StatusCreated
		if res.IsExisting {
			status = http.StatusOK
		}
		respondJSON(w, status, acquireResponse{
			Bookmark:   res.Bookmark,
			IsExisting: res.IsExisting,
			WasUpdated: res.WasUpdated,
		})
	}
}

// ListBookmarks handles GET /api/bookmarks?user=...
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Service.List(r.Context(), r.URL.Query().Get("user"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// GetBookmark handles GET /api/bookmarks/{id}.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, b)
	}
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

// UpdateBookmark handles PATCH /api/bookmarks/{id}.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
			return
		}

		b, err := d.Service.Update(r.Context(), chi.URLParam(r, "id"), bookmarks.UpdateFields{
			Title:       req.Title,
			Description: req.Description,
			Content:     req.Content,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, b)
	}
}

// DeleteBookmark handles DELETE /api/bookmarks/{id}.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Service.Delete(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		d.Logger.Info("bookmark deleted",
			logger.String("bookmark_id", id))
		respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

type statusResponse struct {
	BookmarkID string                  `json:"bookmark_id"`
	Status     domain.EnrichmentStatus `json:"status"`
}

// EnrichmentStatus handles GET /api/bookmarks/{id}/status for polling UIs.
func EnrichmentStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, statusResponse{
			BookmarkID: b.ID,
			Status:     b.Enrichment,
		})
	}
}

// GetInsight handles GET /api/bookmarks/{id}/insight.
func GetInsight(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ins, err := d.Service.Insight(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, ins)
	}
}
