package dedup

import "time"

func (d *deduper) recordRecord() {
	d.mu.Lock()
	d.stats.Records++
	d.mu.Unlock()
}

func (d *deduper) recordInvalid() {
	d.mu.Lock()
	d.stats.Invalid++
	d.mu.Unlock()
}

func (d *deduper) recordDuplicate() {
	d.mu.Lock()
	d.stats.Duplicates++
	d.mu.Unlock()
}

func (d *deduper) recordSkippedCache() {
	d.mu.Lock()
	d.stats.SkippedByCache++
	d.mu.Unlock()
}

func (d *deduper) recordSkippedExtension() {
	d.mu.Lock()
	d.stats.SkippedByExtension++
	d.mu.Unlock()
}

func (d *deduper) collectStats(duration time.Duration) Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	stats := d.stats
	stats.Unique = len(d.entries)
	stats.Duration = duration
	return stats
}
