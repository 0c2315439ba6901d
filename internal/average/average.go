// Package average computes the cross-respondent mean score vector from the
// upstream record store. Results are recomputed per request; this is a
// low-frequency read off the critical path, so nothing is cached.
package average

import (
	"context"
	"errors"
	"time"

	"brandpulse/internal/common/logger"
	"brandpulse/internal/scores"
)

// ErrNoData marks an empty result set. It is distinct from a zero-valued
// average, which would look like a real low score.
var ErrNoData = errors.New("NO_DATA")

// RecordSource provides the full score set of the record store.
type RecordSource interface {
	QueryAllScores(ctx context.Context) ([]scores.ScoreVector, error)
}

// Snapshot is one computed average, never persisted.
type Snapshot struct {
	Scores     scores.ScoreVector
	Total      int
	ComputedAt time.Time
}

type Averager struct {
	source RecordSource
	logger logger.Logger
}

func New(source RecordSource, log logger.Logger) *Averager {
	return &Averager{
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "averager"}),
	}
}

// Compute queries every stored response and returns the per-dimension mean,
// rounded half-up. Returns ErrNoData when the store holds no responses.
func (a *Averager) Compute(ctx context.Context) (*Snapshot, error) {
	vectors, err := a.source.QueryAllScores(ctx)
	if err != nil {
		return nil, err
	}

	mean, ok := scores.Mean(vectors)
	if !ok {
		return nil, ErrNoData
	}

	a.logger.Debug("averages computed", map[string]interface{}{"responses": len(vectors)})
	return &Snapshot{
		Scores:     mean,
		Total:      len(vectors),
		ComputedAt: time.Now().UTC(),
	}, nil
}
