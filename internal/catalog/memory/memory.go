// Package memory provides an in-memory catalog.Store. It backs the test
// suite and lets the service run without a Redis instance.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/domain"
)

// Store is a mutex-guarded in-memory catalog.
type Store struct {
	mu          sync.RWMutex
	bookmarks   map[string]*domain.Bookmark          // bookmark id -> bookmark
	urlIndex    map[string]map[string]string         // user id -> normalized URL -> bookmark id
	tags        map[string]*domain.Tag               // tag id -> tag
	tagNames    map[string]string                    // lower-cased name -> tag id
	assocs      map[string]map[string]*domain.BookmarkTag // bookmark id -> tag id -> link
	insights    map[string]*domain.Insight           // bookmark id -> insight
	notes       map[string][]*domain.Note            // bookmark id -> notes
	highlights  map[string][]*domain.Highlight       // bookmark id -> highlights
	screenshots map[string][]*domain.Screenshot      // bookmark id -> screenshots
	activities  []*domain.Activity                   // append-only, newest last
}

// userKey partitions the URL index; anonymous bookmarks share one partition.
func userKey(userID string) string {
	if userID == "" {
		return "~anon"
	}
	return userID
}

func New() *Store {
	return &Store{
		bookmarks:   make(map[string]*domain.Bookmark),
		urlIndex:    make(map[string]map[string]string),
		tags:        make(map[string]*domain.Tag),
		tagNames:    make(map[string]string),
		assocs:      make(map[string]map[string]*domain.BookmarkTag),
		insights:    make(map[string]*domain.Insight),
		notes:       make(map[string][]*domain.Note),
		highlights:  make(map[string][]*domain.Highlight),
		screenshots: make(map[string][]*domain.Screenshot),
	}
}

var _ catalog.Store = (*Store)(nil)

// ─────────────────────────────
// Bookmarks
// ─────────────────────────────

func (s *Store) SaveBookmark(_ context.Context, b *domain.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *b
	s.bookmarks[b.ID] = &cp

	uk := userKey(b.UserID)
	if s.urlIndex[uk] == nil {
		s.urlIndex[uk] = make(map[string]string)
	}
	s.urlIndex[uk][b.URL] = b.ID
	return nil
}

func (s *Store) GetBookmark(_ context.Context, id string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *Store) ListBookmarks(_ context.Context, userID string) ([]*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Bookmark, 0)
	for _, b := range s.bookmarks {
		if b.UserID != userID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) DeleteBookmark(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return catalog.ErrNotFound
	}

	delete(s.bookmarks, id)
	if idx := s.urlIndex[userKey(b.UserID)]; idx != nil && idx[b.URL] == id {
		delete(idx, b.URL)
	}

	// cascade to children and insight
	delete(s.assocs, id)
	delete(s.insights, id)
	delete(s.notes, id)
	delete(s.highlights, id)
	delete(s.screenshots, id)
	return nil
}

func (s *Store) FindBookmarkByURL(_ context.Context, userID, normalizedURL string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.urlIndex[userKey(userID)]
	if idx == nil {
		return nil, catalog.ErrNotFound
	}
	id, ok := idx[normalizedURL]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *s.bookmarks[id]
	return &cp, nil
}

func (s *Store) FindAnyBookmarkByURL(_ context.Context, normalizedURL, excludeUserID string) (*domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for uk, idx := range s.urlIndex {
		if uk == userKey(excludeUserID) {
			continue
		}
		if id, ok := idx[normalizedURL]; ok {
			cp := *s.bookmarks[id]
			return &cp, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (s *Store) SetEmbedding(_ context.Context, id string, vec []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return catalog.ErrNotFound
	}
	b.Embedding = append([]float32(nil), vec...)
	b.UpdatedAt = time.Now()
	return nil
}

func (s *Store) SetEnrichmentStatus(_ context.Context, id string, status domain.EnrichmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return catalog.ErrNotFound
	}
	b.Enrichment = status
	b.UpdatedAt = time.Now()
	return nil
}

// ─────────────────────────────
// Tags
// ─────────────────────────────

func (s *Store) GetOrCreateTag(_ context.Context, name string, typ domain.TagType) (*domain.Tag, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.tagNames[key]; ok {
		cp := *s.tags[id]
		return &cp, nil
	}

	tag := &domain.Tag{
		ID:        uuid.NewString(),
		Name:      key,
		Type:      typ,
		CreatedAt: time.Now(),
	}
	s.tags[tag.ID] = tag
	s.tagNames[key] = tag.ID

	cp := *tag
	return &cp, nil
}

func (s *Store) GetTag(_ context.Context, id string) (*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tag, ok := s.tags[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *tag
	return &cp, nil
}

func (s *Store) ListBookmarkTags(_ context.Context, bookmarkID string) ([]*domain.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Tag, 0, len(s.assocs[bookmarkID]))
	for tagID := range s.assocs[bookmarkID] {
		if tag, ok := s.tags[tagID]; ok {
			cp := *tag
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) AttachTag(_ context.Context, bookmarkID, tagID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag, ok := s.tags[tagID]
	if !ok {
		return false, catalog.ErrNotFound
	}
	if s.assocs[bookmarkID] == nil {
		s.assocs[bookmarkID] = make(map[string]*domain.BookmarkTag)
	}
	if _, linked := s.assocs[bookmarkID][tagID]; linked {
		return false, nil
	}

	s.assocs[bookmarkID][tagID] = &domain.BookmarkTag{
		ID:         uuid.NewString(),
		BookmarkID: bookmarkID,
		TagID:      tagID,
		CreatedAt:  time.Now(),
	}
	tag.Count++
	return true, nil
}

func (s *Store) DetachTag(_ context.Context, bookmarkID, tagID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := s.assocs[bookmarkID]
	if links == nil {
		return false, nil
	}
	if _, linked := links[tagID]; !linked {
		return false, nil
	}
	delete(links, tagID)

	if tag, ok := s.tags[tagID]; ok && tag.Count > 0 {
		tag.Count--
	}
	return true, nil
}

// ─────────────────────────────
// Insights
// ─────────────────────────────

func (s *Store) UpsertInsight(_ context.Context, ins *domain.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.insights[ins.BookmarkID]; ok {
		existing.Summary = ins.Summary
		existing.Sentiment = ins.Sentiment
		existing.Depth = ins.Depth
		existing.RelatedLinks = append([]string(nil), ins.RelatedLinks...)
		existing.UpdatedAt = now
		ins.ID = existing.ID
		return nil
	}

	if ins.ID == "" {
		ins.ID = uuid.NewString()
	}
	cp := *ins
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.insights[ins.BookmarkID] = &cp
	return nil
}

func (s *Store) GetInsight(_ context.Context, bookmarkID string) (*domain.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ins, ok := s.insights[bookmarkID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *ins
	return &cp, nil
}

// ─────────────────────────────
// Children & activities
// ─────────────────────────────

func (s *Store) SaveNote(_ context.Context, n *domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.notes[n.BookmarkID] = append(s.notes[n.BookmarkID], &cp)
	return nil
}

func (s *Store) SaveHighlight(_ context.Context, h *domain.Highlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *h
	s.highlights[h.BookmarkID] = append(s.highlights[h.BookmarkID], &cp)
	return nil
}

func (s *Store) SaveScreenshot(_ context.Context, sc *domain.Screenshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sc
	s.screenshots[sc.BookmarkID] = append(s.screenshots[sc.BookmarkID], &cp)
	return nil
}

func (s *Store) AppendActivity(_ context.Context, a *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.activities = append(s.activities, &cp)
	return nil
}

func (s *Store) ListActivities(_ context.Context, userID string, limit int) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Activity, 0)
	// newest first
	for i := len(s.activities) - 1; i >= 0; i-- {
		a := s.activities[i]
		if userID != "" && a.UserID != userID {
			continue
		}
		cp := *a
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
