// Package catalog defines the durable store contract for bookmarks and
// everything attached to them. Two implementations exist: redis (durable)
// and memory (tests, and running without a Redis instance).
package catalog

import (
	"context"
	"errors"

	"github.com/nsommier/hoard/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Store is the catalog contract consumed by the ingestion service and the
// enrichment orchestrator.
type Store interface {
	// Bookmarks
	SaveBookmark(ctx context.Context, b *domain.Bookmark) error
	GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error)
	ListBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error)

	// DeleteBookmark removes the bookmark and cascades to its notes,
	// highlights, screenshots and insight. Tag associations are expected to
	// be detached by the caller first so tag counts stay consistent.
	DeleteBookmark(ctx context.Context, id string) error

	// FindBookmarkByURL looks up the bookmark with the given normalized URL
	// owned by userID. Lookup is indexed, not a scan.
	FindBookmarkByURL(ctx context.Context, userID, normalizedURL string) (*domain.Bookmark, error)

	// FindAnyBookmarkByURL returns any bookmark with the given normalized URL
	// owned by a user other than excludeUserID. Informational only; bookmarks
	// are never merged across users.
	FindAnyBookmarkByURL(ctx context.Context, normalizedURL, excludeUserID string) (*domain.Bookmark, error)

	SetEmbedding(ctx context.Context, id string, vec []float32) error
	SetEnrichmentStatus(ctx context.Context, id string, status domain.EnrichmentStatus) error

	// Tags. Counts are maintained server-side so concurrent attach/detach on
	// the same tag never loses updates.
	GetOrCreateTag(ctx context.Context, name string, typ domain.TagType) (*domain.Tag, error)
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListBookmarkTags(ctx context.Context, bookmarkID string) ([]*domain.Tag, error)

	// AttachTag links a tag to a bookmark and increments its count.
	// Returns false without side effects when the pair is already linked.
	AttachTag(ctx context.Context, bookmarkID, tagID string) (bool, error)

	// DetachTag removes the link and decrements the count, floored at zero.
	// Returns false when the pair was not linked.
	DetachTag(ctx context.Context, bookmarkID, tagID string) (bool, error)

	// Insights: at most one per bookmark, overwritten in place.
	UpsertInsight(ctx context.Context, ins *domain.Insight) error
	GetInsight(ctx context.Context, bookmarkID string) (*domain.Insight, error)

	// Children
	SaveNote(ctx context.Context, n *domain.Note) error
	SaveHighlight(ctx context.Context, h *domain.Highlight) error
	SaveScreenshot(ctx context.Context, s *domain.Screenshot) error

	// Activities: append-only.
	AppendActivity(ctx context.Context, a *domain.Activity) error
	ListActivities(ctx context.Context, userID string, limit int) ([]*domain.Activity, error)
}
