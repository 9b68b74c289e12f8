package domain

import "time"

// Note is a free-text annotation attached to a bookmark.
type Note struct {
	ID         string    `json:"id"`
	BookmarkID string    `json:"bookmark_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Highlight is a quoted passage saved from the bookmarked page.
type Highlight struct {
	ID         string    `json:"id"`
	BookmarkID string    `json:"bookmark_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Screenshot references a captured image of the bookmarked page.
type Screenshot struct {
	ID         string    `json:"id"`
	BookmarkID string    `json:"bookmark_id"`
	ImageURL   string    `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
}
