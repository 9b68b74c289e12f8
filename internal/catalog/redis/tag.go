package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/domain"
)

// GetOrCreateTag returns the tag registered under the (case-insensitive) name,
// creating it when missing. HSETNX on the name index makes concurrent
// first-use creation race-free.
func (s *Store) GetOrCreateTag(ctx context.Context, name string, typ domain.TagType) (*domain.Tag, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	if id, err := s.client.HGet(ctx, KeyTagNames, key).Result(); err == nil {
		return s.GetTag(ctx, id)
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to query tag names: %w", err)
	}

	tag := &domain.Tag{
		ID:        uuid.NewString(),
		Name:      key,
		Type:      typ,
		CreatedAt: time.Now(),
	}

	claimed, err := s.client.HSetNX(ctx, KeyTagNames, key, tag.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to register tag name: %w", err)
	}
	if !claimed {
		// lost the creation race, use the winner
		id, err := s.client.HGet(ctx, KeyTagNames, key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to query tag names: %w", err)
		}
		return s.GetTag(ctx, id)
	}

	data, err := json.Marshal(tag)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tag: %w", err)
	}
	if err := s.client.Set(ctx, TagKey(tag.ID), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to save tag: %w", err)
	}
	return tag, nil
}

// GetTag retrieves a tag record and merges in its live counter.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	data, err := s.client.Get(ctx, TagKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	var tag domain.Tag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag: %w", err)
	}

	count, err := s.client.Get(ctx, TagCountKey(id)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get tag count: %w", err)
	}
	if count > 0 {
		tag.Count = count
	}
	return &tag, nil
}

// ListBookmarkTags returns every tag linked to the bookmark.
func (s *Store) ListBookmarkTags(ctx context.Context, bookmarkID string) ([]*domain.Tag, error) {
	tagIDs, err := s.client.HKeys(ctx, BookmarkTagsKey(bookmarkID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark tag links: %w", err)
	}

	tags := make([]*domain.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tag, err := s.GetTag(ctx, id)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// AttachTag links a tag to a bookmark. HSETNX makes the attach idempotent:
// the counter is only incremented when a new link was actually created.
func (s *Store) AttachTag(ctx context.Context, bookmarkID, tagID string) (bool, error) {
	exists, err := s.client.Exists(ctx, TagKey(tagID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check tag: %w", err)
	}
	if exists == 0 {
		return false, catalog.ErrNotFound
	}

	link := domain.BookmarkTag{
		ID:         uuid.NewString(),
		BookmarkID: bookmarkID,
		TagID:      tagID,
		CreatedAt:  time.Now(),
	}
	data, err := json.Marshal(link)
	if err != nil {
		return false, fmt.Errorf("failed to marshal tag link: %w", err)
	}

	created, err := s.client.HSetNX(ctx, BookmarkTagsKey(bookmarkID), tagID, data).Result()
	if err != nil {
		return false, fmt.Errorf("failed to attach tag: %w", err)
	}
	if !created {
		return false, nil
	}

	if err := s.client.IncrBy(ctx, TagCountKey(tagID), 1).Err(); err != nil {
		return true, fmt.Errorf("failed to increment tag count: %w", err)
	}
	return true, nil
}

// DetachTag removes a bookmark-tag link and decrements the counter,
// floored at zero.
func (s *Store) DetachTag(ctx context.Context, bookmarkID, tagID string) (bool, error) {
	removed, err := s.client.HDel(ctx, BookmarkTagsKey(bookmarkID), tagID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to detach tag: %w", err)
	}
	if removed == 0 {
		return false, nil
	}

	count, err := s.client.DecrBy(ctx, TagCountKey(tagID), 1).Result()
	if err != nil {
		return true, fmt.Errorf("failed to decrement tag count: %w", err)
	}
	if count < 0 {
		// never report negative usage
		if err := s.client.Set(ctx, TagCountKey(tagID), 0, 0).Err(); err != nil {
			return true, fmt.Errorf("failed to floor tag count: %w", err)
		}
	}
	return true, nil
}
