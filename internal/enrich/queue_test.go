package enrich

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsommier/hoard/internal/catalog/memory"
	"github.com/nsommier/hoard/internal/domain"
	"github.com/nsommier/hoard/internal/logger"
	"github.com/nsommier/hoard/internal/providers"
)

type countingTagger struct {
	mu   sync.Mutex
	seen []string
}

func (c *countingTagger) GenerateTags(_ context.Context, _, url, _ string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, url)
	return []string{"auto"}, nil
}

func TestQueueProcessesSubmittedJobs(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	ids := []string{"q-1", "q-2", "q-3"}
	for _, id := range ids {
		require.NoError(t, store.SaveBookmark(ctx, &domain.Bookmark{
			ID: id, URL: "https://example.com/" + id, UserID: "u",
		}))
	}

	tagger := &countingTagger{}
	e := New(store, nil, tagger, nil, logger.Nop(), time.Second)
	q := NewQueue(e, 2, 8, logger.Nop())
	q.Start(context.Background())

	for _, id := range ids {
		ok := q.Submit(Job{BookmarkID: id, URL: "https://example.com/" + id, Depth: 1})
		assert.True(t, ok)
	}

	q.Stop()

	tagger.mu.Lock()
	defer tagger.mu.Unlock()
	assert.Len(t, tagger.seen, len(ids))

	for _, id := range ids {
		b, err := store.GetBookmark(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.EnrichmentCompleted, b.Enrichment)
	}
}

func TestQueueSubmitDropsWhenFull(t *testing.T) {
	// no workers started, so the buffer fills up
	e := New(memory.New(), nil, nil, nil, logger.Nop(), time.Second)
	q := NewQueue(e, 1, 1, logger.Nop())

	assert.True(t, q.Submit(Job{BookmarkID: "a"}))
	assert.False(t, q.Submit(Job{BookmarkID: "b"}), "second job must be dropped, not block")
}

func TestQueueSubmitAfterStop(t *testing.T) {
	e := New(memory.New(), nil, nil, nil, logger.Nop(), time.Second)
	q := NewQueue(e, 1, 4, logger.Nop())
	q.Start(context.Background())
	q.Stop()

	assert.False(t, q.Submit(Job{BookmarkID: "late"}))
}

func TestQueueSubmitConcurrentWithStop(t *testing.T) {
	e := New(memory.New(), nil, nil, nil, logger.Nop(), time.Second)
	q := NewQueue(e, 2, 4, logger.Nop())
	q.Start(context.Background())

	// submitters race the shutdown; none of them may panic
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					q.Submit(Job{BookmarkID: "racer"})
				}
			}
		}()
	}

	q.Stop()
	close(done)
	wg.Wait()

	assert.False(t, q.Submit(Job{BookmarkID: "late"}))
}

func TestQueueStopIsIdempotent(t *testing.T) {
	e := New(memory.New(), nil, nil, nil, logger.Nop(), time.Second)
	q := NewQueue(e, 1, 4, logger.Nop())
	q.Start(context.Background())

	q.Stop()
	q.Stop()
}

type nopInsights struct{}

func (nopInsights) GenerateInsights(_ context.Context, _, _ string, _ int, _ string, _ []string) (*providers.InsightResult, error) {
	return &providers.InsightResult{Summary: "s"}, nil
}

func TestQueueDrainsBufferOnStop(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.SaveBookmark(ctx, &domain.Bookmark{ID: "d-1", URL: "https://example.com/d", UserID: "u"}))

	e := New(store, nil, nil, nopInsights{}, logger.Nop(), time.Second)
	q := NewQueue(e, 1, 4, logger.Nop())

	// enqueue before any worker runs, then start and stop: the buffered job
	// must still be processed
	require.True(t, q.Submit(Job{BookmarkID: "d-1", URL: "https://example.com/d", Depth: 1}))
	q.Start(context.Background())
	q.Stop()

	b, err := store.GetBookmark(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EnrichmentCompleted, b.Enrichment)
}
