package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/domain"
)

// UpsertInsight writes the bookmark's insight, overwriting any previous one
// in place. The record is keyed by bookmark id, so a second row can never
// appear for the same bookmark.
func (s *Store) UpsertInsight(ctx context.Context, ins *domain.Insight) error {
	now := time.Now()

	existing, err := s.GetInsight(ctx, ins.BookmarkID)
	switch {
	case err == nil:
		ins.ID = existing.ID
		ins.CreatedAt = existing.CreatedAt
	case errors.Is(err, catalog.ErrNotFound):
		if ins.ID == "" {
			ins.ID = uuid.NewString()
		}
		ins.CreatedAt = now
	default:
		return err
	}
	ins.UpdatedAt = now

	data, err := json.Marshal(ins)
	if err != nil {
		return fmt.Errorf("failed to marshal insight: %w", err)
	}
	if err := s.client.Set(ctx, InsightKey(ins.BookmarkID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save insight: %w", err)
	}
	return nil
}

// GetInsight retrieves the insight for a bookmark.
func (s *Store) GetInsight(ctx context.Context, bookmarkID string) (*domain.Insight, error) {
	data, err := s.client.Get(ctx, InsightKey(bookmarkID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}

	var ins domain.Insight
	if err := json.Unmarshal(data, &ins); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insight: %w", err)
	}
	return &ins, nil
}
