// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhooksIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_submissions_ingested_total",
			Help: "Total number of survey submissions ingested from the webhook",
		},
	)

	WebhooksFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_submissions_failed_total",
			Help: "Total number of webhook submissions rejected",
		},
		[]string{"reason"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_hits_total",
			Help: "Total number of result cache lookups that hit",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_misses_total",
			Help: "Total number of result cache lookups that missed or were expired",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_evictions_total",
			Help: "Total number of entries evicted by expiry or sweep",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "result_cache_entries",
			Help: "Current number of entries in the result cache",
		},
	)

	ResolverAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_cache_attempts_total",
			Help: "Total number of cache lookup attempts made by the fallback resolver",
		},
	)

	ResolverFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_upstream_fallbacks_total",
			Help: "Total number of reads that exhausted cache retries and hit the record store",
		},
	)

	UpstreamQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "upstream_query_duration_seconds",
			Help: "Duration of record store queries in seconds",
		},
		[]string{"query"},
	)
)
