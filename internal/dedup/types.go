package dedup

import (
	"io"
	"time"

	"go.uber.org/zap"

	"urlnorm/internal/urlnorm"
)

// Config defines inputs for a dedup run.
type Config struct {
	Inputs            []Input
	Workers           int
	Options           urlnorm.Options
	CachePath         string
	AllowedExtensions []string
	HTML              bool
	BaseURL           string
	Logger            *zap.Logger
	// Progress receives every raw record as it is normalized. It may be
	// called from several goroutines at once.
	Progress func(string)
}

// Input is a named source of records.
type Input struct {
	Name   string
	Reader io.Reader
}

// Report captures the outcome of a run.
type Report struct {
	Entries    []Entry   `json:"entries" yaml:"entries"`
	Errors     []Error   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Stats      Stats     `json:"stats" yaml:"stats"`
	StartedAt  time.Time `json:"startedAt" yaml:"started_at"`
	FinishedAt time.Time `json:"finishedAt" yaml:"finished_at"`
}

// Entry is one unique normalized URL, in order of first appearance.
type Entry struct {
	URL    string `json:"url" yaml:"url"`
	Hash   string `json:"hash" yaml:"hash"`
	Source string `json:"source" yaml:"source"`
	// Line is the input line, or the link ordinal in HTML mode.
	Line  int `json:"line" yaml:"line"`
	Count int `json:"count" yaml:"count"`
}

// Error captures an input that could not be normalized.
type Error struct {
	Source  string `json:"source" yaml:"source"`
	Line    int    `json:"line" yaml:"line"`
	Input   string `json:"input" yaml:"input"`
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}

// Stats aggregates run level counters.
type Stats struct {
	Records            int           `json:"records" yaml:"records"`
	Unique             int           `json:"unique" yaml:"unique"`
	Duplicates         int           `json:"duplicates" yaml:"duplicates"`
	Invalid            int           `json:"invalid" yaml:"invalid"`
	SkippedByCache     int           `json:"skippedByCache" yaml:"skipped_by_cache"`
	SkippedByExtension int           `json:"skippedByExtension" yaml:"skipped_by_extension"`
	Duration           time.Duration `json:"duration" yaml:"duration"`
}
