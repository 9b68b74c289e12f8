package bookmarks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/catalog/memory"
	"github.com/nsommier/hoard/internal/domain"
	"github.com/nsommier/hoard/internal/enrich"
	"github.com/nsommier/hoard/internal/logger"
	"github.com/nsommier/hoard/internal/providers"
)

type fakeExtractor struct {
	meta *providers.PageMetadata
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (*providers.PageMetadata, error) {
	return f.meta, f.err
}

type fakeQueue struct {
	jobs []enrich.Job
	full bool
}

func (f *fakeQueue) Submit(job enrich.Job) bool {
	if f.full {
		return false
	}
	f.jobs = append(f.jobs, job)
	return true
}

func newTestService(store catalog.Store, ext providers.Extractor, q Queue) *Service {
	return New(store, ext, q, logger.Nop(), domain.NormalizeOptions{
		StripTracking:  true,
		TrackingParams: domain.DefaultTrackingParams,
	}, 1)
}

func TestAcquireCreatesBookmark(t *testing.T) {
	store := memory.New()
	q := &fakeQueue{}
	svc := newTestService(store, nil, q)
	ctx := context.Background()

	res, err := svc.Acquire(ctx, AcquireOptions{
		URL:        "http://WWW.Example.com/Post/?utm_source=x",
		UserID:     "alice",
		Title:      "A post",
		Tags:       []string{"Go", "go", " reading "},
		AutoEnrich: true,
	})
	require.NoError(t, err)
	assert.False(t, res.IsExisting)
	assert.False(t, res.WasUpdated)
	assert.Equal(t, "https://example.com/post/", res.Bookmark.URL)
	assert.Equal(t, domain.EnrichmentPending, res.Bookmark.Enrichment)
	assert.Equal(t, domain.SourceWeb, res.Bookmark.Source)

	// tags are normalized and deduplicated before attachment
	tags, err := store.ListBookmarkTags(ctx, res.Bookmark.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
		assert.Equal(t, int64(1), tag.Count)
	}
	assert.ElementsMatch(t, []string{"go", "reading"}, names)

	require.Len(t, q.jobs, 1)
	assert.Equal(t, res.Bookmark.ID, q.jobs[0].BookmarkID)

	acts, err := store.ListActivities(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, domain.ActivityBookmarkAdded, acts[0].Type)
}

func TestAcquireEmptyURL(t *testing.T) {
	svc := newTestService(memory.New(), nil, nil)

	_, err := svc.Acquire(context.Background(), AcquireOptions{URL: "   ", UserID: "alice"})
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestAcquireRepeatSaveMerges(t *testing.T) {
	store := memory.New()
	q := &fakeQueue{}
	svc := newTestService(store, nil, q)
	ctx := context.Background()

	first, err := svc.Acquire(ctx, AcquireOptions{
		URL:         "https://example.com/article",
		UserID:      "alice",
		Title:       "Article",
		Description: "first thoughts",
		Tags:        []string{"go"},
		AutoEnrich:  true,
	})
	require.NoError(t, err)

	// equivalent URL, new description, overlapping tags
	second, err := svc.Acquire(ctx, AcquireOptions{
		URL:         "http://www.example.com/article?utm_campaign=news",
		UserID:      "alice",
		Description: "second thoughts",
		Tags:        []string{"go", "web"},
		AutoEnrich:  true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsExisting)
	assert.True(t, second.WasUpdated)
	assert.Equal(t, first.Bookmark.ID, second.Bookmark.ID)
	assert.Equal(t, "first thoughts"+domain.DescriptionSeparator+"second thoughts", second.Bookmark.Description)

	// only one row exists for the user
	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// "go" was already attached, its count must not bump again
	tags, err := store.ListBookmarkTags(ctx, first.Bookmark.ID)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, tag := range tags {
		counts[tag.Name] = tag.Count
	}
	assert.Equal(t, int64(1), counts["go"])
	assert.Equal(t, int64(1), counts["web"])

	// merging never re-triggers enrichment
	assert.Len(t, q.jobs, 1)
}

func TestRepeatSaveSameDescriptionNotReappended(t *testing.T) {
	store := memory.New()
	svc := newTestService(store, nil, nil)
	ctx := context.Background()

	opts := AcquireOptions{
		URL:         "https://example.com/replay",
		UserID:      "alice",
		Title:       "Replay",
		Description: "my notes",
	}

	_, err := svc.Acquire(ctx, opts)
	require.NoError(t, err)

	// replaying the identical save must not grow the description
	var res *AcquireResult
	for i := 0; i < 3; i++ {
		res, err = svc.Acquire(ctx, opts)
		require.NoError(t, err)
	}
	assert.Equal(t, "my notes", res.Bookmark.Description)
	assert.True(t, res.WasUpdated)

	// and must not emit update activities either
	acts, err := store.ListActivities(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Len(t, acts, 1)

	// a genuinely new description still appends once
	opts.Description = "fresh notes"
	res, err = svc.Acquire(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "my notes"+domain.DescriptionSeparator+"fresh notes", res.Bookmark.Description)

	res, err = svc.Acquire(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "my notes"+domain.DescriptionSeparator+"fresh notes", res.Bookmark.Description)
}

func TestAcquireCrossUserStaysSeparate(t *testing.T) {
	store := memory.New()
	svc := newTestService(store, nil, nil)
	ctx := context.Background()

	a, err := svc.Acquire(ctx, AcquireOptions{URL: "https://example.com/shared", UserID: "alice", Title: "t"})
	require.NoError(t, err)

	b, err := svc.Acquire(ctx, AcquireOptions{URL: "https://example.com/shared", UserID: "bob", Title: "t"})
	require.NoError(t, err)

	assert.False(t, b.IsExisting)
	assert.NotEqual(t, a.Bookmark.ID, b.Bookmark.ID)

	aList, _ := svc.List(ctx, "alice")
	bList, _ := svc.List(ctx, "bob")
	assert.Len(t, aList, 1)
	assert.Len(t, bList, 1)
}

func TestAcquireMetadataFallbacks(t *testing.T) {
	t.Run("extractor fills missing fields", func(t *testing.T) {
		ext := &fakeExtractor{meta: &providers.PageMetadata{
			Title:       "Fetched title",
			Description: "fetched description",
			Content:     "body text",
		}}
		svc := newTestService(memory.New(), ext, nil)

		res, err := svc.Acquire(context.Background(), AcquireOptions{URL: "https://example.com/x", UserID: "u"})
		require.NoError(t, err)
		assert.Equal(t, "Fetched title", res.Bookmark.Title)
		assert.Equal(t, "fetched description", res.Bookmark.Description)
		assert.Equal(t, "body text", res.Bookmark.Content)
	})

	t.Run("caller fields win over extraction", func(t *testing.T) {
		ext := &fakeExtractor{meta: &providers.PageMetadata{Title: "Fetched", Content: "body"}}
		svc := newTestService(memory.New(), ext, nil)

		res, err := svc.Acquire(context.Background(), AcquireOptions{
			URL:    "https://example.com/x",
			UserID: "u",
			Title:  "Mine",
		})
		require.NoError(t, err)
		assert.Equal(t, "Mine", res.Bookmark.Title)
		assert.Equal(t, "body", res.Bookmark.Content)
	})

	t.Run("placeholder when extraction fails", func(t *testing.T) {
		ext := &fakeExtractor{err: errors.New("boom")}
		svc := newTestService(memory.New(), ext, nil)

		res, err := svc.Acquire(context.Background(), AcquireOptions{URL: "https://example.com/x", UserID: "u"})
		require.NoError(t, err)
		assert.Equal(t, domain.PlaceholderTitle, res.Bookmark.Title)
	})
}

func TestAcquireSavesChildren(t *testing.T) {
	store := memory.New()
	svc := newTestService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.Acquire(ctx, AcquireOptions{
		URL:        "https://example.com/notes",
		UserID:     "alice",
		Title:      "t",
		Notes:      []string{"note one", "  "},
		Highlights: []string{"a highlight"},
		Screenshot: "https://cdn.example.com/shot.png",
	})
	require.NoError(t, err)

	acts, err := store.ListActivities(ctx, "alice", 10)
	require.NoError(t, err)
	types := map[domain.ActivityType]int{}
	for _, a := range acts {
		types[a.Type]++
	}
	assert.Equal(t, 1, types[domain.ActivityBookmarkAdded])
	assert.Equal(t, 1, types[domain.ActivityNoteAdded], "blank note must be skipped")
	assert.Equal(t, 1, types[domain.ActivityHighlightAdded])
}

func TestUpdatePartialFields(t *testing.T) {
	svc := newTestService(memory.New(), nil, nil)
	ctx := context.Background()

	res, err := svc.Acquire(ctx, AcquireOptions{
		URL:         "https://example.com/u",
		UserID:      "alice",
		Title:       "old",
		Description: "keep me",
	})
	require.NoError(t, err)

	title := "new"
	updated, err := svc.Update(ctx, res.Bookmark.ID, UpdateFields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
}

func TestDeleteCascadesAndDetachesTags(t *testing.T) {
	store := memory.New()
	svc := newTestService(store, nil, nil)
	ctx := context.Background()

	res, err := svc.Acquire(ctx, AcquireOptions{
		URL:    "https://example.com/del",
		UserID: "alice",
		Title:  "t",
		Tags:   []string{"go"},
	})
	require.NoError(t, err)

	tags, err := store.ListBookmarkTags(ctx, res.Bookmark.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	tagID := tags[0].ID

	require.NoError(t, svc.Delete(ctx, res.Bookmark.ID))

	// tag row survives with a decremented count
	tag, err := store.GetTag(ctx, tagID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tag.Count)

	_, err = svc.Get(ctx, res.Bookmark.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// deleting again reports not found
	err = svc.Delete(ctx, res.Bookmark.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// URL is free for re-saving
	again, err := svc.Acquire(ctx, AcquireOptions{URL: "https://example.com/del", UserID: "alice", Title: "t"})
	require.NoError(t, err)
	assert.False(t, again.IsExisting)
	assert.NotEqual(t, res.Bookmark.ID, again.Bookmark.ID)
}

func TestAcquireFullQueueStillSucceeds(t *testing.T) {
	q := &fakeQueue{full: true}
	svc := newTestService(memory.New(), nil, q)

	res, err := svc.Acquire(context.Background(), AcquireOptions{
		URL:        "https://example.com/busy",
		UserID:     "alice",
		Title:      "t",
		AutoEnrich: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Bookmark)
	assert.Empty(t, q.jobs)
}

func TestMergeContentReplacedOnlyWhenDifferent(t *testing.T) {
	svc := newTestService(memory.New(), nil, nil)
	ctx := context.Background()

	_, err := svc.Acquire(ctx, AcquireOptions{
		URL:     "https://example.com/c",
		UserID:  "alice",
		Title:   "t",
		Content: "version one",
	})
	require.NoError(t, err)

	res, err := svc.Acquire(ctx, AcquireOptions{
		URL:     "https://example.com/c",
		UserID:  "alice",
		Content: "version two",
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(res.Bookmark.Content, "version two"))
	assert.False(t, strings.Contains(res.Bookmark.Content, "version one"))
}
