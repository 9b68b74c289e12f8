package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/domain"
)

// SaveBookmark stores a bookmark and maintains its lookup indexes.
func (s *Store) SaveBookmark(ctx context.Context, b *domain.Bookmark) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, BookmarkKey(b.ID), data, 0)
	pipe.SAdd(ctx, UserBookmarksKey(b.UserID), b.ID)
	pipe.HSet(ctx, URLIndexKey(b.UserID), b.URL, b.ID)
	pipe.SAdd(ctx, URLOwnersKey(b.URL), b.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	return nil
}

// GetBookmark retrieves a bookmark by ID.
func (s *Store) GetBookmark(ctx context.Context, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return &b, nil
}

// ListBookmarks retrieves all bookmarks owned by a user.
func (s *Store) ListBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	ids, err := s.client.SMembers(ctx, UserBookmarksKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	bookmarks := make([]*domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		b, err := s.GetBookmark(ctx, id)
		if err != nil {
			// Skip bookmarks that couldn't be retrieved
			continue
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

// DeleteBookmark removes a bookmark, its indexes, and its child records
// (notes, highlights, screenshots, insight, tag links).
func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	b, err := s.GetBookmark(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, BookmarkKey(id))
	pipe.SRem(ctx, UserBookmarksKey(b.UserID), id)
	pipe.HDel(ctx, URLIndexKey(b.UserID), b.URL)
	pipe.SRem(ctx, URLOwnersKey(b.URL), id)
	pipe.Del(ctx, BookmarkTagsKey(id))
	pipe.Del(ctx, InsightKey(id))
	pipe.Del(ctx, NotesKey(id))
	pipe.Del(ctx, HighlightsKey(id))
	pipe.Del(ctx, ScreenshotsKey(id))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

// FindBookmarkByURL looks up a user's bookmark by normalized URL through the
// per-user hash index.
func (s *Store) FindBookmarkByURL(ctx context.Context, userID, normalizedURL string) (*domain.Bookmark, error) {
	id, err := s.client.HGet(ctx, URLIndexKey(userID), normalizedURL).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query url index: %w", err)
	}
	return s.GetBookmark(ctx, id)
}

// FindAnyBookmarkByURL returns a bookmark saved under the normalized URL by
// any user except excludeUserID.
func (s *Store) FindAnyBookmarkByURL(ctx context.Context, normalizedURL, excludeUserID string) (*domain.Bookmark, error) {
	ids, err := s.client.SMembers(ctx, URLOwnersKey(normalizedURL)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query url owners: %w", err)
	}

	for _, id := range ids {
		b, err := s.GetBookmark(ctx, id)
		if err != nil {
			continue
		}
		if b.UserID != excludeUserID {
			return b, nil
		}
	}
	return nil, catalog.ErrNotFound
}

// SetEmbedding stores the semantic vector on a bookmark.
func (s *Store) SetEmbedding(ctx context.Context, id string, vec []float32) error {
	return s.mutateBookmark(ctx, id, func(b *domain.Bookmark) {
		b.Embedding = vec
	})
}

// SetEnrichmentStatus updates the enrichment state field.
func (s *Store) SetEnrichmentStatus(ctx context.Context, id string, status domain.EnrichmentStatus) error {
	return s.mutateBookmark(ctx, id, func(b *domain.Bookmark) {
		b.Enrichment = status
	})
}

// mutateBookmark applies fn to the stored record and writes it back.
// Enrichment runs are serialized per bookmark, so read-modify-write is safe
// for the fields mutated here.
func (s *Store) mutateBookmark(ctx context.Context, id string, fn func(*domain.Bookmark)) error {
	b, err := s.GetBookmark(ctx, id)
	if err != nil {
		return err
	}

	fn(b)
	b.UpdatedAt = time.Now()

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}
	if err := s.client.Set(ctx, BookmarkKey(id), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	return nil
}
