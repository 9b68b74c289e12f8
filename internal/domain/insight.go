package domain

import "time"

// Insight is the AI-derived summary for a bookmark. At most one insight exists
// per bookmark; re-enrichment overwrites in place.
type Insight struct {
	ID           string    `json:"id"`
	BookmarkID   string    `json:"bookmark_id"`
	Summary      string    `json:"summary"`
	Sentiment    float64   `json:"sentiment"`
	Depth        int       `json:"depth"` // requested analysis depth, >= 1
	RelatedLinks []string  `json:"related_links,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
