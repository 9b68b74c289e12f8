package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nsommier/hoard/internal/domain"
)

// AppendActivity records an immutable event on the global feed and on the
// actor's own feed. Activities are only ever prepended, never rewritten.
func (s *Store) AppendActivity(ctx context.Context, a *domain.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, KeyActivities, data)
	pipe.LPush(ctx, UserActivitiesKey(a.UserID), data)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// ListActivities returns the newest activities first. An empty userID reads
// the global feed.
func (s *Store) ListActivities(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	key := KeyActivities
	if userID != "" {
		key = UserActivitiesKey(userID)
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	entries, err := s.client.LRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	out := make([]*domain.Activity, 0, len(entries))
	for _, raw := range entries {
		var a domain.Activity
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			// Skip entries that couldn't be decoded
			continue
		}
		out = append(out, &a)
	}
	return out, nil
}
