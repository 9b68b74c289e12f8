// Package bookmarks implements the synchronous ingestion path: duplicate
// detection, create-or-merge semantics, tag attachment and activity
// recording. Background enrichment is handed off to the enrich queue and
// never blocks a caller.
package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/domain"
	"github.com/nsommier/hoard/internal/enrich"
	"github.com/nsommier/hoard/internal/logger"
	"github.com/nsommier/hoard/internal/providers"
)

// ErrEmptyURL is returned when an acquisition request carries no URL.
var ErrEmptyURL = errors.New("bookmarks: url is required")

// Queue is the enrichment hand-off used by the acquisition path.
type Queue interface {
	Submit(job enrich.Job) bool
}

// Service is the bookmark ingestion service.
type Service struct {
	store     catalog.Store
	extractor providers.Extractor // may be nil
	queue     Queue               // may be nil, disables auto-enrichment
	log       logger.Logger
	normOpts  domain.NormalizeOptions
	depth     int // default insight depth
}

// New creates the ingestion service. extractor and queue are optional.
func New(
	store catalog.Store,
	extractor providers.Extractor,
	queue Queue,
	log logger.Logger,
	normOpts domain.NormalizeOptions,
	defaultDepth int,
) *Service {
	if defaultDepth < 1 {
		defaultDepth = 1
	}
	return &Service{
		store:     store,
		extractor: extractor,
		queue:     queue,
		log:       log,
		normOpts:  normOpts,
		depth:     defaultDepth,
	}
}

// AcquireOptions describes one save request.
type AcquireOptions struct {
	URL         string
	UserID      string
	Title       string
	Description string
	Content     string
	Source      domain.Source
	Tags        []string
	Notes       []string
	Highlights  []string
	Screenshot  string // image URL, optional

	AutoEnrich   bool
	InsightDepth int // 0 = service default
}

// AcquireResult is the outcome of an acquisition.
type AcquireResult struct {
	Bookmark   *domain.Bookmark
	IsExisting bool
	WasUpdated bool
}

// Acquire saves a URL for a user: either creating a new bookmark or merging
// into the caller's existing one. The call returns once the synchronous steps
// have committed; enrichment runs in the background.
func (s *Service) Acquire(ctx context.Context, opts AcquireOptions) (*AcquireResult, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, ErrEmptyURL
	}
	if opts.Source == "" {
		opts.Source = domain.SourceWeb
	}

	res, err := s.Resolve(ctx, opts.URL, opts.UserID)
	if err != nil {
		return nil, err
	}

	if res.ExistingID != "" && res.ExistingBelongsToCaller {
		return s.mergeExisting(ctx, res.ExistingID, opts)
	}
	if res.ExistingID != "" {
		// same URL saved by another user; bookmarks stay user-scoped
		s.log.Debug("url already saved by another user",
			logger.String("url", res.NormalizedURL))
	}

	return s.createNew(ctx, res.NormalizedURL, opts)
}

// createNew runs the ordered create path: persist the bookmark, record the
// creation, attach tags and children, then hand off enrichment.
func (s *Service) createNew(ctx context.Context, normalizedURL string, opts AcquireOptions) (*AcquireResult, error) {
	title, description, content := s.resolveMetadata(ctx, normalizedURL, opts)

	now := time.Now()
	b := &domain.Bookmark{
		ID:          uuid.NewString(),
		URL:         normalizedURL,
		UserID:      opts.UserID,
		Title:       title,
		Description: description,
		Content:     content,
		Source:      opts.Source,
		Enrichment:  domain.EnrichmentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.SaveBookmark(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}

	s.recordActivity(ctx, b, domain.ActivityBookmarkAdded, "Saved "+b.Title, nil)

	if _, err := s.attachTags(ctx, b.ID, opts.Tags, domain.TagUser); err != nil {
		return nil, err
	}
	if err := s.saveChildren(ctx, b, opts); err != nil {
		return nil, err
	}

	if opts.AutoEnrich {
		s.enqueueEnrichment(b, opts)
	}

	return &AcquireResult{Bookmark: b}, nil
}

// mergeExisting folds a repeat save into the caller's bookmark. Descriptions
// accumulate behind a separator so user edits are never overwritten; a
// description already recorded is not appended again, so replaying the same
// save (periodic bulk imports do) leaves the record untouched. Tags already
// attached are skipped so counts stay correct, and the update activity is
// only emitted when something actually changed. Merging never re-triggers
// enrichment.
func (s *Service) mergeExisting(ctx context.Context, id string, opts AcquireOptions) (*AcquireResult, error) {
	b, err := s.store.GetBookmark(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if desc := strings.TrimSpace(opts.Description); desc != "" && !hasDescription(b.Description, desc) {
		if b.Description == "" {
			b.Description = desc
		} else {
			b.Description += domain.DescriptionSeparator + desc
		}
		changed = true
	}
	if opts.Content != "" && opts.Content != b.Content {
		b.Content = opts.Content
		changed = true
	}

	if changed {
		b.UpdatedAt = time.Now()
		if err := s.store.SaveBookmark(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to update bookmark: %w", err)
		}
	}

	linked, err := s.attachTags(ctx, b.ID, opts.Tags, domain.TagUser)
	if err != nil {
		return nil, err
	}

	if changed || linked {
		s.recordActivity(ctx, b, domain.ActivityBookmarkAdded, "Updated "+b.Title, domain.NormalizeTags(opts.Tags))
	}

	return &AcquireResult{Bookmark: b, IsExisting: true, WasUpdated: true}, nil
}

// hasDescription reports whether desc is already recorded on the bookmark,
// either as the whole description or as its most recent appended segment.
func hasDescription(existing, desc string) bool {
	if existing == desc {
		return true
	}
	segments := strings.Split(existing, domain.DescriptionSeparator)
	return segments[len(segments)-1] == desc
}

// resolveMetadata fills title/description/content from the caller, falling
// back to page extraction, falling back to placeholders.
func (s *Service) resolveMetadata(ctx context.Context, url string, opts AcquireOptions) (title, description, content string) {
	title = strings.TrimSpace(opts.Title)
	description = strings.TrimSpace(opts.Description)
	content = opts.Content

	if (title == "" || content == "") && s.extractor != nil {
		meta, err := s.extractor.Extract(ctx, url)
		if err != nil {
			s.log.Debug("metadata extraction failed",
				logger.String("url", url),
				logger.Error(err))
		} else {
			if title == "" {
				title = meta.Title
			}
			if description == "" {
				description = meta.Description
			}
			if content == "" {
				content = meta.Content
			}
		}
	}

	if title == "" {
		title = domain.PlaceholderTitle
	}
	return title, description, content
}

// attachTags normalizes, creates missing tag rows and links them. Attach is
// idempotent: tags already linked do not bump their count again. Reports
// whether any new link was created.
func (s *Service) attachTags(ctx context.Context, bookmarkID string, raw []string, typ domain.TagType) (bool, error) {
	linked := false
	for _, name := range domain.NormalizeTags(raw) {
		tag, err := s.store.GetOrCreateTag(ctx, name, typ)
		if err != nil {
			return linked, fmt.Errorf("failed to create tag %q: %w", name, err)
		}
		created, err := s.store.AttachTag(ctx, bookmarkID, tag.ID)
		if err != nil {
			return linked, fmt.Errorf("failed to attach tag %q: %w", name, err)
		}
		if created {
			linked = true
		}
	}
	return linked, nil
}

// saveChildren persists user-supplied notes, highlights and screenshot, each
// paired with its own activity record.
func (s *Service) saveChildren(ctx context.Context, b *domain.Bookmark, opts AcquireOptions) error {
	now := time.Now()

	for _, body := range opts.Notes {
		if strings.TrimSpace(body) == "" {
			continue
		}
		note := &domain.Note{
			ID:         uuid.NewString(),
			BookmarkID: b.ID,
			Body:       body,
			CreatedAt:  now,
		}
		if err := s.store.SaveNote(ctx, note); err != nil {
			return fmt.Errorf("failed to save note: %w", err)
		}
		s.recordActivity(ctx, b, domain.ActivityNoteAdded, body, nil)
	}

	for _, text := range opts.Highlights {
		if strings.TrimSpace(text) == "" {
			continue
		}
		hl := &domain.Highlight{
			ID:         uuid.NewString(),
			BookmarkID: b.ID,
			Text:       text,
			CreatedAt:  now,
		}
		if err := s.store.SaveHighlight(ctx, hl); err != nil {
			return fmt.Errorf("failed to save highlight: %w", err)
		}
		s.recordActivity(ctx, b, domain.ActivityHighlightAdded, text, nil)
	}

	if opts.Screenshot != "" {
		sc := &domain.Screenshot{
			ID:         uuid.NewString(),
			BookmarkID: b.ID,
			ImageURL:   opts.Screenshot,
			CreatedAt:  now,
		}
		if err := s.store.SaveScreenshot(ctx, sc); err != nil {
			return fmt.Errorf("failed to save screenshot: %w", err)
		}
	}

	return nil
}

func (s *Service) enqueueEnrichment(b *domain.Bookmark, opts AcquireOptions) {
	if s.queue == nil {
		return
	}

	depth := opts.InsightDepth
	if depth < 1 {
		depth = s.depth
	}

	job := enrich.Job{
		BookmarkID: b.ID,
		UserID:     b.UserID,
		URL:        b.URL,
		Content:    b.Content,
		ShortText:  b.Description,
		Depth:      depth,
	}
	if !s.queue.Submit(job) {
		s.log.Warn("enrichment not scheduled",
			logger.String("bookmark_id", b.ID))
	}
}

// recordActivity appends an activity record; failures are logged, the save
// itself already committed.
func (s *Service) recordActivity(ctx context.Context, b *domain.Bookmark, typ domain.ActivityType, content string, tags []string) {
	activity := &domain.Activity{
		ID:         uuid.NewString(),
		BookmarkID: b.ID,
		UserID:     b.UserID,
		Type:       typ,
		Content:    content,
		Tags:       tags,
		CreatedAt:  time.Now(),
	}
	if err := s.store.AppendActivity(ctx, activity); err != nil {
		s.log.Warn("failed to record activity",
			logger.String("bookmark_id", b.ID),
			logger.String("type", string(typ)),
			logger.Error(err))
	}
}

// UpdateFields carries partial bookmark edits. Nil pointers leave the field
// untouched.
type UpdateFields struct {
	Title       *string
	Description *string
	Content     *string
}

// Update applies partial edits to a bookmark.
func (s *Service) Update(ctx context.Context, id string, fields UpdateFields) (*domain.Bookmark, error) {
	b, err := s.store.GetBookmark(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields.Title != nil {
		b.Title = *fields.Title
	}
	if fields.Description != nil {
		b.Description = *fields.Description
	}
	if fields.Content != nil {
		b.Content = *fields.Content
	}
	b.UpdatedAt = time.Now()

	if err := s.store.SaveBookmark(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}
	return b, nil
}

// Delete removes a bookmark: every attached tag is detached first so counts
// stay consistent, then the record and its children are removed.
func (s *Service) Delete(ctx context.Context, id string) error {
	tags, err := s.store.ListBookmarkTags(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.store.GetBookmark(ctx, id); err != nil {
		return err
	}

	for _, tag := range tags {
		if _, err := s.store.DetachTag(ctx, id, tag.ID); err != nil {
			s.log.Warn("failed to detach tag during delete",
				logger.String("bookmark_id", id),
				logger.String("tag_id", tag.ID),
				logger.Error(err))
		}
	}

	return s.store.DeleteBookmark(ctx, id)
}

// Get returns a bookmark by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Bookmark, error) {
	return s.store.GetBookmark(ctx, id)
}

// List returns all bookmarks owned by a user.
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	return s.store.ListBookmarks(ctx, userID)
}

// Activities returns the newest activities, per user or global.
func (s *Service) Activities(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	return s.store.ListActivities(ctx, userID, limit)
}

// Insight returns the bookmark's insight, if one has been generated.
func (s *Service) Insight(ctx context.Context, bookmarkID string) (*domain.Insight, error) {
	return s.store.GetInsight(ctx, bookmarkID)
}
