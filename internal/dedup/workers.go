package dedup

import (
	"context"

	"urlnorm/internal/urlnorm"
)

type job struct {
	index int
	raw   string
}

type result struct {
	url string
	err error
}

func (d *deduper) worker(ctx context.Context) {
	defer d.workers.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-d.jobs:
			if !ok {
				return
			}
			d.emitProgress(j.raw)
			normalized, err := urlnorm.Normalize(j.raw, d.options)
			d.results[j.index] = result{url: normalized, err: err}
		}
	}
}

func (d *deduper) enqueue(ctx context.Context, records []record) {
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- job{index: i, raw: rec.raw}:
		}
	}
}
