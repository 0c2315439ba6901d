// Package cache implements the time-bounded multi-key result cache that
// buffers computed scores between webhook ingestion and the read path.
package cache

import (
	"context"

	"brandpulse/internal/scores"
)

// Result is a computed score set for one respondent. It is immutable once
// written; a later webhook for the same respondent overwrites it whole.
type Result struct {
	SubmissionID string             `json:"submission_id"`
	Nombre       string             `json:"nombre"`
	Scores       scores.ScoreVector `json:"scores"`
	Timestamp    int64              `json:"timestamp"` // unix milliseconds, set on write
}

// EntryStat describes one cached entry for operational inspection.
type EntryStat struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	AgeSeconds int64  `json:"age_seconds"`
}

// Stats is a diagnostic snapshot of the cache, served by the debug endpoint.
type Stats struct {
	Total   int         `json:"total"`
	Entries []EntryStat `json:"entries"`
}

// Store is the result cache contract shared by the memory and redis backends.
//
// PutAll registers one result under every alias in a single atomic step: no
// reader may observe some aliases pointing at the new result while others
// still return the old one. Get treats expired entries as absent and evicts
// them as a side effect.
type Store interface {
	Put(ctx context.Context, id string, result *Result) error
	PutAll(ctx context.Context, ids []string, result *Result) error
	Get(ctx context.Context, id string) (*Result, bool, error)
	Sweep(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*Stats, error)
}
