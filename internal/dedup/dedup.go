// Package dedup normalizes URL lists in bulk and keeps the first occurrence
// of every canonical URL.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"urlnorm/internal/urlnorm"
)

// skipped marks a seen URL that was filtered out instead of reported.
const skipped = -1

type deduper struct {
	options    urlnorm.Options
	allowedExt map[string]struct{}
	cachePath  string
	logger     *zap.Logger
	progress   func(string)

	jobs    chan job
	workers sync.WaitGroup
	results []result

	seen    map[string]int
	mu      sync.Mutex
	entries []Entry
	errors  []Error
	stats   Stats

	cacheMu sync.RWMutex
	cache   cacheData
}

// Run reads every input, normalizes the records on a worker pool and returns
// the unique URLs in order of first appearance.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if len(cfg.Inputs) == 0 {
		return nil, errors.New("at least one input is required")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cache, err := loadCache(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	if cfg.CachePath != "" {
		logger.Info("cache loaded", zap.String("path", cfg.CachePath), zap.Int("urls", len(cache.Seen)))
	}

	d := &deduper{
		options:    cfg.Options,
		allowedExt: buildAllowedExtensions(cfg.AllowedExtensions),
		cachePath:  cfg.CachePath,
		logger:     logger,
		progress:   cfg.Progress,
		jobs:       make(chan job, workers*2),
		seen:       map[string]int{},
		cache:      cache,
	}

	started := time.Now()
	records, err := readRecords(cfg)
	if err != nil {
		return nil, err
	}
	d.results = make([]result, len(records))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i := 0; i < workers; i++ {
		d.workers.Add(1)
		go d.worker(ctx)
	}
	d.enqueue(ctx, records)
	close(d.jobs)
	d.workers.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, rec := range records {
		d.merge(rec, d.results[i], started)
	}
	finished := time.Now()

	report := &Report{
		Entries:    d.entries,
		Errors:     d.errors,
		Stats:      d.collectStats(finished.Sub(started)),
		StartedAt:  started,
		FinishedAt: finished,
	}
	if err := d.writeCache(); err != nil {
		return nil, fmt.Errorf("write cache: %w", err)
	}
	if d.cachePath != "" {
		logger.Info("cache written", zap.String("path", d.cachePath), zap.Int("urls", len(d.cache.Seen)))
	}
	logger.Debug("dedup finished",
		zap.Int("records", report.Stats.Records),
		zap.Int("unique", report.Stats.Unique),
		zap.Int("duplicates", report.Stats.Duplicates),
		zap.Int("invalid", report.Stats.Invalid),
		zap.Duration("duration", report.Stats.Duration),
	)
	return report, nil
}

// merge folds one normalized record into the report. It runs in input order
// so the output does not depend on worker scheduling.
func (d *deduper) merge(rec record, res result, now time.Time) {
	d.recordRecord()
	if res.err != nil {
		d.logger.Debug("rejected input",
			zap.String("source", rec.source),
			zap.Int("line", rec.line),
			zap.String("input", rec.raw),
			zap.Error(res.err),
		)
		d.recordInvalid()
		d.recordError(Error{
			Source:  rec.source,
			Line:    rec.line,
			Input:   rec.raw,
			Type:    "invalid",
			Message: res.err.Error(),
		})
		return
	}

	if idx, ok := d.seen[res.url]; ok {
		if idx != skipped {
			d.entries[idx].Count++
		}
		d.recordDuplicate()
		return
	}
	if !d.allowedExtension(res.url) {
		d.seen[res.url] = skipped
		d.recordSkippedExtension()
		return
	}
	hash := urlnorm.HashNormalized(res.url)
	if d.touchCached(hash, now) {
		d.seen[res.url] = skipped
		d.recordSkippedCache()
		return
	}
	d.updateCache(hash, res.url, now)
	d.seen[res.url] = len(d.entries)
	d.entries = append(d.entries, Entry{
		URL:    res.url,
		Hash:   hash,
		Source: rec.source,
		Line:   rec.line,
		Count:  1,
	})
}

func (d *deduper) emitProgress(raw string) {
	if d.progress == nil {
		return
	}
	d.progress(raw)
}
