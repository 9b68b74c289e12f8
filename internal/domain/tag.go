package domain

import "time"

// TagType distinguishes user-supplied tags from AI-generated ones.
type TagType string

const (
	TagUser   TagType = "user"
	TagSystem TagType = "system"
)

// Tag is a label shared across bookmarks. Names are unique case-insensitively;
// Count mirrors the number of live bookmark associations.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      TagType   `json:"type"`
	Count     int64     `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkTag links one bookmark to one tag. A given (bookmark, tag) pair
// exists at most once.
type BookmarkTag struct {
	ID         string    `json:"id"`
	BookmarkID string    `json:"bookmark_id"`
	TagID      string    `json:"tag_id"`
	CreatedAt  time.Time `json:"created_at"`
}
