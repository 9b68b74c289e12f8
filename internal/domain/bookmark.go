package domain

import "time"

// Source indicates where a bookmark was captured from.
type Source string

const (
	SourceExtension Source = "extension"
	SourceWeb       Source = "web"
	SourceImport    Source = "import"
	SourceFeed      Source = "external-feed"
)

// EnrichmentStatus tracks the background enrichment lifecycle of a bookmark.
type EnrichmentStatus string

const (
	EnrichmentPending    EnrichmentStatus = "pending"
	EnrichmentProcessing EnrichmentStatus = "processing"
	EnrichmentCompleted  EnrichmentStatus = "completed"
	EnrichmentFailed     EnrichmentStatus = "failed"
)

// Bookmark is a saved URL together with everything derived from it.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (UUID).
	ID string `json:"id"`

	// URL is the normalized form of the saved URL.
	// Per user, at most one bookmark may carry an equivalent normalized URL.
	URL string `json:"url"`

	// UserID is the owning user. Empty for public/anonymous bookmarks.
	UserID string `json:"user_id,omitempty"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title is caller-supplied or extracted from the page; never empty once saved.
	Title string `json:"title"`

	// Description accumulates across repeat saves, separated by DescriptionSeparator.
	Description string `json:"description,omitempty"`

	// Content is the raw extracted page text, when available.
	Content string `json:"content,omitempty"`

	// ─────────────────────────────
	// Provenance & enrichment
	// ─────────────────────────────

	// Source indicates where this bookmark was captured from.
	Source Source `json:"source"`

	// Embedding is the semantic vector produced by enrichment. Nil until set.
	Embedding []float32 `json:"embedding,omitempty"`

	// Enrichment tracks the background enrichment state.
	Enrichment EnrichmentStatus `json:"enrichment"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is the first time the bookmark was saved.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is updated on any mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// DescriptionSeparator delimits appended descriptions on repeat saves so user
// edits are never overwritten.
const DescriptionSeparator = "\n---\n"

// PlaceholderTitle is stored when neither the caller nor page extraction
// provides a title.
const PlaceholderTitle = "Untitled"
