package dedup

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// cacheData is the seen set persisted between runs, keyed by URL hash.
type cacheData struct {
	Seen map[string]cacheEntry `json:"seen"`
}

type cacheEntry struct {
	URL       string    `json:"url"`
	Count     int       `json:"count"`
	FirstSeen time.Time `json:"firstSeen"`
	LastSeen  time.Time `json:"lastSeen"`
}

// touchCached reports whether hash was already cached and bumps its counters
// if so.
func (d *deduper) touchCached(hash string, seenAt time.Time) bool {
	if d.cachePath == "" {
		return false
	}
	d.cacheMu.Lock()
	defer d.cacheMu.Unlock()
	entry, ok := d.cache.Seen[hash]
	if !ok {
		return false
	}
	entry.Count++
	entry.LastSeen = seenAt.UTC()
	d.cache.Seen[hash] = entry
	return true
}

func (d *deduper) updateCache(hash, normalized string, seenAt time.Time) {
	if d.cachePath == "" || normalized == "" {
		return
	}
	d.cacheMu.Lock()
	if d.cache.Seen == nil {
		d.cache.Seen = make(map[string]cacheEntry)
	}
	d.cache.Seen[hash] = cacheEntry{
		URL:       normalized,
		Count:     1,
		FirstSeen: seenAt.UTC(),
		LastSeen:  seenAt.UTC(),
	}
	d.cacheMu.Unlock()
}

func (d *deduper) writeCache() error {
	if d.cachePath == "" {
		return nil
	}
	d.cacheMu.RLock()
	copySeen := make(map[string]cacheEntry, len(d.cache.Seen))
	for k, v := range d.cache.Seen {
		copySeen[k] = v
	}
	d.cacheMu.RUnlock()

	data := cacheData{Seen: copySeen}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(d.cachePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(d.cachePath, payload, 0o644)
}

func loadCache(path string) (cacheData, error) {
	data := cacheData{Seen: make(map[string]cacheEntry)}
	if path == "" {
		return data, nil
	}
	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return data, err
	}
	if len(payload) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(payload, &data); err != nil {
		return cacheData{}, err
	}
	if data.Seen == nil {
		data.Seen = make(map[string]cacheEntry)
	}
	return data, nil
}
