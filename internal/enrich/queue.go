package enrich

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nsommier/hoard/internal/logger"
)

func newActivityID() string { return uuid.NewString() }

// Queue is a bounded worker pool that runs enrichment jobs in the background.
// Submitting never blocks the ingestion path: when the buffer is full the job
// is dropped with a warning. The jobs channel is never closed, so Submit is
// safe to call concurrently with Stop.
type Queue struct {
	enricher *Enricher
	log      logger.Logger
	jobs     chan Job
	workers  int
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopped  atomic.Bool
	once     sync.Once
}

// NewQueue creates a queue with the given worker count and buffer size.
func NewQueue(enricher *Enricher, workers, size int, log logger.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 64
	}
	return &Queue{
		enricher: enricher,
		log:      log,
		jobs:     make(chan Job, size),
		workers:  workers,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the workers. ctx bounds the provider calls of every run;
// the workers themselves only exit through Stop, after draining the buffer.
func (q *Queue) Start(ctx context.Context) {
	q.log.Info("enrichment queue started",
		logger.Int("workers", q.workers),
		logger.Int("capacity", cap(q.jobs)))

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

// Submit enqueues a job without blocking. Returns false when the queue is
// full or stopped and the job was dropped.
func (q *Queue) Submit(job Job) bool {
	if q.stopped.Load() {
		q.log.Warn("enrichment queue stopped, dropping job",
			logger.String("bookmark_id", job.BookmarkID))
		return false
	}

	select {
	case q.jobs <- job:
		return true
	default:
		q.log.Warn("enrichment queue full, dropping job",
			logger.String("bookmark_id", job.BookmarkID))
		return false
	}
}

// Stop refuses new jobs and waits for the workers to drain the buffer.
func (q *Queue) Stop() {
	q.once.Do(func() {
		q.stopped.Store(true)
		close(q.stopCh)
	})
	q.wg.Wait()
	q.log.Info("enrichment queue stopped")
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case job := <-q.jobs:
			q.run(ctx, job)
		case <-q.stopCh:
			// drain whatever is buffered, then exit
			for {
				select {
				case job := <-q.jobs:
					q.run(ctx, job)
				default:
					return
				}
			}
		}
	}
}

func (q *Queue) run(ctx context.Context, job Job) {
	err := q.enricher.Enrich(ctx, job)
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyEnriching):
		q.log.Debug("enrichment already in flight, skipping",
			logger.String("bookmark_id", job.BookmarkID))
	default:
		q.log.Error("enrichment run failed",
			logger.String("bookmark_id", job.BookmarkID),
			logger.Error(err))
	}
}
