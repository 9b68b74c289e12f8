package domain

import "time"

// ActivityType enumerates user-visible state changes.
type ActivityType string

const (
	ActivityBookmarkAdded    ActivityType = "bookmark_added"
	ActivityNoteAdded        ActivityType = "note_added"
	ActivityHighlightAdded   ActivityType = "highlight_added"
	ActivityInsightGenerated ActivityType = "insight_generated"
)

// Activity is an immutable event record consumed by history and feed views.
// The pipeline only ever appends; activities are never mutated or deleted.
type Activity struct {
	ID         string       `json:"id"`
	BookmarkID string       `json:"bookmark_id,omitempty"`
	UserID     string       `json:"user_id,omitempty"`
	Type       ActivityType `json:"type"`
	Content    string       `json:"content,omitempty"`
	Tags       []string     `json:"tags,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
