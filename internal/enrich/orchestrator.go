// Package enrich runs the background enrichment pipeline: per bookmark, an
// embedding, AI tags and an insight are produced concurrently and merged into
// the catalog. Everything here is best-effort; provider failures are logged
// and never surface to the ingestion caller.
package enrich

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nsommier/hoard/internal/catalog"
	"github.com/nsommier/hoard/internal/domain"
	"github.com/nsommier/hoard/internal/logger"
	"github.com/nsommier/hoard/internal/providers"
)

// ErrAlreadyEnriching is returned when an enrichment run for the same
// bookmark is still in flight.
var ErrAlreadyEnriching = errors.New("enrich: run already in flight for bookmark")

// Job describes one enrichment run.
type Job struct {
	BookmarkID string
	UserID     string
	URL        string

	// Content is the extracted long-form page text. When empty the embedding
	// task is skipped (not failed).
	Content string

	// ShortText is fallback short-form text (description, post body) used by
	// the tag and insight tasks when Content is empty.
	ShortText string

	// Depth is the requested insight depth, >= 1.
	Depth int

	// Optional prompt overrides passed through to the providers.
	TagPrompt     string
	InsightPrompt string
	MediaURLs     []string
}

// Enricher orchestrates the three enrichment tasks and merges their results.
type Enricher struct {
	store    catalog.Store
	embedder providers.Embedder
	tagger   providers.TagGenerator
	insights providers.InsightGenerator
	log      logger.Logger
	timeout  time.Duration

	mu       sync.Mutex
	inflight map[string]struct{} // bookmark ids with a running enrichment
}

// New creates an Enricher. Any provider may be nil, in which case its task is
// skipped. timeout bounds each provider call.
func New(
	store catalog.Store,
	embedder providers.Embedder,
	tagger providers.TagGenerator,
	insights providers.InsightGenerator,
	log logger.Logger,
	timeout time.Duration,
) *Enricher {
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	return &Enricher{
		store:    store,
		embedder: embedder,
		tagger:   tagger,
		insights: insights,
		log:      log,
		timeout:  timeout,
		inflight: make(map[string]struct{}),
	}
}

// results collects what the three tasks produced. Fields are written by one
// goroutine each and read only after the join point.
type results struct {
	embedding []float32
	tags      []string
	insight   *providers.InsightResult
}

// Enrich runs one enrichment pass for the job's bookmark. Runs for the same
// bookmark are mutually exclusive so insight upserts never race each other.
func (e *Enricher) Enrich(ctx context.Context, job Job) error {
	e.mu.Lock()
	if _, running := e.inflight[job.BookmarkID]; running {
		e.mu.Unlock()
		return ErrAlreadyEnriching
	}
	e.inflight[job.BookmarkID] = struct{}{}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inflight, job.BookmarkID)
		e.mu.Unlock()
	}()

	if job.Depth < 1 {
		job.Depth = 1
	}

	if err := e.store.SetEnrichmentStatus(ctx, job.BookmarkID, domain.EnrichmentProcessing); err != nil {
		return err
	}

	res := e.runTasks(ctx, job)
	e.merge(ctx, job, res)
	return nil
}

// runTasks launches the three provider calls concurrently and waits for all
// of them to settle. A failure in one never aborts the others.
func (e *Enricher) runTasks(ctx context.Context, job Job) *results {
	res := &results{}
	var wg sync.WaitGroup

	text := job.Content
	if text == "" {
		text = job.ShortText
	}

	if e.embedder != nil && job.Content != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			vec, err := e.embedder.Embed(taskCtx, job.Content)
			if err != nil {
				e.log.Warn("embedding generation failed",
					logger.String("bookmark_id", job.BookmarkID),
					logger.Error(err))
				return
			}
			res.embedding = vec
		}()
	}

	if e.tagger != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			tags, err := e.tagger.GenerateTags(taskCtx, text, job.URL, job.TagPrompt)
			if err != nil {
				e.log.Warn("tag generation failed",
					logger.String("bookmark_id", job.BookmarkID),
					logger.Error(err))
				return
			}
			res.tags = tags
		}()
	}

	if e.insights != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			ins, err := e.insights.GenerateInsights(taskCtx, job.URL, text, job.Depth, job.InsightPrompt, job.MediaURLs)
			if err != nil {
				e.log.Warn("insight generation failed",
					logger.String("bookmark_id", job.BookmarkID),
					logger.Error(err))
				return
			}
			res.insight = ins
		}()
	}

	wg.Wait()
	return res
}

// merge deterministically persists whatever the tasks produced. Persistence
// failures are logged; the remaining writes still happen.
func (e *Enricher) merge(ctx context.Context, job Job, res *results) {
	merged := false

	if res.embedding != nil {
		if err := e.store.SetEmbedding(ctx, job.BookmarkID, res.embedding); err != nil {
			e.log.Error("failed to persist embedding",
				logger.String("bookmark_id", job.BookmarkID),
				logger.Error(err))
		} else {
			merged = true
		}
	}

	// union of the tag task output and tags surfaced by the insight task,
	// deduplicated case-insensitively
	raw := append([]string(nil), res.tags...)
	if res.insight != nil {
		raw = append(raw, res.insight.Tags...)
	}
	tagNames := domain.NormalizeTags(raw)
	for _, name := range tagNames {
		if e.attachSystemTag(ctx, job.BookmarkID, name) {
			merged = true
		}
	}

	if res.insight != nil {
		ins := &domain.Insight{
			BookmarkID:   job.BookmarkID,
			Summary:      res.insight.Summary,
			Sentiment:    res.insight.Sentiment,
			Depth:        job.Depth,
			RelatedLinks: res.insight.RelatedLinks,
		}
		if err := e.store.UpsertInsight(ctx, ins); err != nil {
			e.log.Error("failed to upsert insight",
				logger.String("bookmark_id", job.BookmarkID),
				logger.Error(err))
		} else {
			merged = true
			e.recordInsightActivity(ctx, job, tagNames)
		}
	}

	status := domain.EnrichmentCompleted
	if !merged {
		status = domain.EnrichmentFailed
	}
	if err := e.store.SetEnrichmentStatus(ctx, job.BookmarkID, status); err != nil {
		e.log.Error("failed to update enrichment status",
			logger.String("bookmark_id", job.BookmarkID),
			logger.Error(err))
		return
	}

	e.log.Info("enrichment finished",
		logger.String("bookmark_id", job.BookmarkID),
		logger.String("status", string(status)),
		logger.Bool("embedding", res.embedding != nil),
		logger.Int("tags", len(tagNames)),
		logger.Bool("insight", res.insight != nil))
}

// attachSystemTag creates the tag row if needed and links it idempotently.
func (e *Enricher) attachSystemTag(ctx context.Context, bookmarkID, name string) bool {
	tag, err := e.store.GetOrCreateTag(ctx, name, domain.TagSystem)
	if err != nil {
		e.log.Warn("failed to create tag",
			logger.String("bookmark_id", bookmarkID),
			logger.String("tag", name),
			logger.Error(err))
		return false
	}

	if _, err := e.store.AttachTag(ctx, bookmarkID, tag.ID); err != nil {
		e.log.Warn("failed to attach tag",
			logger.String("bookmark_id", bookmarkID),
			logger.String("tag", name),
			logger.Error(err))
		return false
	}
	return true
}

func (e *Enricher) recordInsightActivity(ctx context.Context, job Job, tags []string) {
	activity := &domain.Activity{
		ID:         newActivityID(),
		BookmarkID: job.BookmarkID,
		UserID:     job.UserID,
		Type:       domain.ActivityInsightGenerated,
		Content:    "Generated insight for " + job.URL,
		Tags:       tags,
		CreatedAt:  time.Now(),
	}
	if err := e.store.AppendActivity(ctx, activity); err != nil {
		e.log.Warn("failed to record insight activity",
			logger.String("bookmark_id", job.BookmarkID),
			logger.Error(err))
	}
}
