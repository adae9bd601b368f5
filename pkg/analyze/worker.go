package analyze

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"tally/pkg/classify"
	"tally/pkg/collector"
	"tally/pkg/lang"
)

// ErrNoFiles is returned when there is nothing to analyze, so callers can
// present "no files found" instead of an empty-but-successful report.
var ErrNoFiles = errors.New("no files to analyze")

type fileResult struct {
	stats classify.FileStats
	err   error
}

// ClassifyFiles classifies every file concurrently through a bounded
// worker pool and folds the results into one AggregateStats. The pool size
// caps simultaneous open file handles; results merge through a single
// consumer, so no locking is needed. Cancelling ctx stops dispatching new
// files; the partial total is returned alongside the context error and
// must not be presented as a complete scan.
func ClassifyFiles(ctx context.Context, files []collector.FileRecord, profile lang.Profile, maxWorkers int, logger *zap.Logger) (AggregateStats, error) {
	agg := NewAggregateStats()

	if len(files) == 0 {
		return agg, ErrNoFiles
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("adjusted worker count", zap.Int("workers", maxWorkers))
	}
	if maxWorkers > len(files) {
		maxWorkers = len(files)
	}

	eng, err := classify.NewEngine(profile)
	if err != nil {
		return agg, err
	}

	jobs := make(chan collector.FileRecord, len(files))
	results := make(chan fileResult, len(files))
	var wg sync.WaitGroup

	logger.Debug("starting classification pool", zap.Int("workers", maxWorkers), zap.Int("files", len(files)))
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		workerLogger := logger.With(zap.Int("workerID", w))
		go classifyWorker(ctx, jobs, results, eng, &wg, workerLogger)
	}

dispatch:
	for _, file := range files {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- file:
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single consumer: merges are serialized here even though
	// classification runs in parallel.
	for r := range results {
		if r.err != nil {
			agg.MergeInvalid()
			continue
		}
		agg.MergeFile(r.stats)
	}

	if err := ctx.Err(); err != nil {
		return agg, fmt.Errorf("analysis interrupted: %w", err)
	}

	logger.Debug("classification finished",
		zap.Int("analyzed", agg.Analyzed()),
		zap.Int("invalid", agg.FilesInvalid))
	return agg, nil
}

// classifyWorker drains the jobs channel, classifying one file at a time
// with fresh per-file state. Open and read failures are reported as
// results, not fatal errors; they become invalid-file counts.
func classifyWorker(ctx context.Context, jobs <-chan collector.FileRecord, results chan<- fileResult, eng classify.Engine, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()

	for file := range jobs {
		if ctx.Err() != nil {
			return
		}
		stats, err := classify.ClassifyFile(file.Path, eng)
		if err != nil {
			logger.Warn("failed to read file", zap.String("path", file.Path), zap.Error(err))
		}
		results <- fileResult{stats: stats, err: err}
	}
}
