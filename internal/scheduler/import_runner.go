// Package scheduler hosts the periodic background jobs of the service.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nsommier/hoard/internal/bookmarks"
	"github.com/nsommier/hoard/internal/logger"
	"github.com/nsommier/hoard/internal/sources/importfile"
)

// ImportRunner periodically replays the bulk-import file through the normal
// acquisition path. Repeat runs are harmless: already-saved URLs merge
// instead of duplicating.
type ImportRunner struct {
	loader        *importfile.Loader
	mapper        *importfile.Mapper
	service       *bookmarks.Service
	logger        logger.Logger
	interval      time.Duration
	parallelism   int
	autoEnrich    bool
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewImportRunner creates an import runner for the given file.
func NewImportRunner(
	importFile string,
	service *bookmarks.Service,
	log logger.Logger,
	interval time.Duration,
	parallelism int,
	autoEnrich bool,
	manualTrigger chan struct{},
) *ImportRunner {
	if parallelism < 1 {
		parallelism = 1
	}
	return &ImportRunner{
		loader:        importfile.NewLoader(importFile),
		mapper:        importfile.NewMapper(),
		service:       service,
		logger:        log,
		interval:      interval,
		parallelism:   parallelism,
		autoEnrich:    autoEnrich,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs an initial import and begins the periodic schedule.
func (ir *ImportRunner) Start(ctx context.Context) error {
	if err := ir.Run(ctx); err != nil {
		return fmt.Errorf("initial import failed: %w", err)
	}

	ticker := time.NewTicker(ir.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ir.Run(ctx); err != nil {
					ir.logger.Error("failed to run import",
						logger.Error(err))
				}
			case <-ir.manualTrigger:
				ir.logger.Info("manual import triggered")
				if err := ir.Run(ctx); err != nil {
					ir.logger.Error("failed to run import",
						logger.Error(err))
				}
			case <-ir.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the periodic schedule.
func (ir *ImportRunner) Stop() {
	close(ir.stopCh)
}

// Run loads the file and acquires every entry with bounded parallelism.
// Per-entry failures are logged and do not abort the batch.
func (ir *ImportRunner) Run(ctx context.Context) error {
	f, err := ir.loader.Load()
	if err != nil {
		return err
	}

	requests := ir.mapper.Map(f, ir.autoEnrich)
	ir.logger.Info("running bulk import",
		logger.Int("entries", len(requests)))

	var created, merged, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ir.parallelism)

	for _, req := range requests {
		req := req
		g.Go(func() error {
			res, err := ir.service.Acquire(gctx, req)
			switch {
			case err != nil:
				failed.Add(1)
				ir.logger.Warn("import entry failed",
					logger.String("url", req.URL),
					logger.Error(err))
			case res.IsExisting:
				merged.Add(1)
			default:
				created.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	ir.logger.Info("bulk import finished",
		logger.Int64("created", created.Load()),
		logger.Int64("merged", merged.Load()),
		logger.Int64("failed", failed.Load()))
	return nil
}
