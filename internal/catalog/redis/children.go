package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nsommier/hoard/internal/domain"
)

// SaveNote appends a note to the bookmark's note list.
func (s *Store) SaveNote(ctx context.Context, n *domain.Note) error {
	return s.pushJSON(ctx, NotesKey(n.BookmarkID), n, "note")
}

// SaveHighlight appends a highlight to the bookmark's highlight list.
func (s *Store) SaveHighlight(ctx context.Context, h *domain.Highlight) error {
	return s.pushJSON(ctx, HighlightsKey(h.BookmarkID), h, "highlight")
}

// SaveScreenshot appends a screenshot reference to the bookmark's list.
func (s *Store) SaveScreenshot(ctx context.Context, sc *domain.Screenshot) error {
	return s.pushJSON(ctx, ScreenshotsKey(sc.BookmarkID), sc, "screenshot")
}

func (s *Store) pushJSON(ctx context.Context, key string, v any, kind string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}
	return nil
}
