// Package resolver serves single-respondent reads through the layered
// fallback chain: cache first, bounded retries to ride out ingestion lag,
// then a direct query against the upstream record store.
package resolver

import (
	"context"
	"time"

	"brandpulse/internal/cache"
	"brandpulse/internal/common/logger"
	"brandpulse/internal/common/metrics"
)

// Upstream is the record store consulted once cache retries are exhausted.
// Implementations return a RESULT_NOT_FOUND standard error when the id is
// unknown and UPSTREAM_UNAVAILABLE when the store itself fails.
type Upstream interface {
	FetchResult(ctx context.Context, id string) (*cache.Result, error)
}

type Config struct {
	MaxAttempts     int
	RetryDelay      time.Duration
	UpstreamTimeout time.Duration
}

type Resolver struct {
	store    cache.Store
	upstream Upstream
	config   *Config
	sleep    func(ctx context.Context, d time.Duration) error
	logger   logger.Logger
}

func New(store cache.Store, upstream Upstream, cfg *Config, log logger.Logger) *Resolver {
	return &Resolver{
		store:    store,
		upstream: upstream,
		config:   cfg,
		sleep:    ctxSleep,
		logger:   log.WithFields(map[string]interface{}{"component": "resolver"}),
	}
}

// Resolve runs the per-request state machine. Retries are strictly
// sequential within one call; concurrent calls for different identifiers
// proceed independently. Abandoning ctx just discards the in-flight wait.
func (r *Resolver) Resolve(ctx context.Context, id string) (*cache.Result, error) {
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		metrics.ResolverAttempts.Inc()

		result, ok, err := r.store.Get(ctx, id)
		if err != nil {
			// A failing cache backend is treated as a miss; the upstream
			// query is still authoritative.
			r.logger.WithError(err).Warn("cache lookup failed", map[string]interface{}{
				"submissionId": id,
				"attempt":      attempt,
			})
		}
		if ok {
			return result, nil
		}

		if attempt < r.config.MaxAttempts {
			r.logger.Debug("result not cached yet, waiting", map[string]interface{}{
				"submissionId": id,
				"attempt":      attempt,
				"delay":        r.config.RetryDelay.String(),
			})
			if err := r.sleep(ctx, r.config.RetryDelay); err != nil {
				return nil, err
			}
		}
	}

	metrics.ResolverFallbacks.Inc()
	r.logger.Info("cache retries exhausted, querying record store", map[string]interface{}{
		"submissionId": id,
		"attempts":     r.config.MaxAttempts,
	})

	uctx, cancel := context.WithTimeout(ctx, r.config.UpstreamTimeout)
	defer cancel()

	return r.upstream.FetchResult(uctx, id)
}

// ctxSleep waits for d or until ctx is done, whichever comes first.
func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
