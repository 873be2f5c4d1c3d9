// Package source defines where raw job records come from. A source produces a
// finite batch of records that the pipeline upserts idempotently, so partial
// or repeated ingestion always converges to the same end state.
package source

import (
	"context"
	"time"
)

// Record is one raw posting as produced by a job source.
type Record struct {
	ID          string `mapstructure:"id"`
	Title       string `mapstructure:"title"`
	Company     string `mapstructure:"company"`
	Location    string `mapstructure:"location"`
	Description string `mapstructure:"description"`
	URL         string `mapstructure:"url"`
	Deadline    *time.Time
}

// Source produces a finite, possibly empty batch of raw job records.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Record, error)
}
