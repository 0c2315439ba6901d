package ingest

import (
	"context"
	"strconv"
	"time"

	"brandpulse/internal/cache"
	apperrors "brandpulse/internal/common/errors"
	"brandpulse/internal/common/logger"
	"brandpulse/internal/common/metrics"
	"brandpulse/internal/scores"
)

// Ingestor processes one submission event end to end: normalize the raw
// sub-scores and register the result under every identifier alias. Safe for
// at-least-once delivery; a redelivered event just overwrites its own result.
type Ingestor struct {
	store  cache.Store
	logger logger.Logger
	now    func() time.Time
}

func NewIngestor(store cache.Store, log logger.Logger) *Ingestor {
	return &Ingestor{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "ingestor"}),
		now:    time.Now,
	}
}

// CanonicalID picks the identifier that owns the cache entry. The platform's
// own result links use the response id, so it wins; the generated fallback
// guarantees a result is never unregisterable.
func (i *Ingestor) CanonicalID(p *WebhookPayload) string {
	switch {
	case p.Data.ResponseID != "":
		return p.Data.ResponseID
	case p.Data.SubmissionID != "":
		return p.Data.SubmissionID
	case p.EventID != "":
		return p.EventID
	default:
		return strconv.FormatInt(i.now().UnixMilli(), 10)
	}
}

// Ingest normalizes the event and writes the result under all aliases. The
// cache write is the only side effect; either everything is registered or
// nothing is.
func (i *Ingestor) Ingest(ctx context.Context, p *WebhookPayload) (*cache.Result, error) {
	canonical := i.CanonicalID(p)
	nombre := displayName(p.Data.Fields)
	vector := scores.Normalize(extractRawScores(p.Data.Fields))

	result := &cache.Result{
		SubmissionID: canonical,
		Nombre:       nombre,
		Scores:       vector,
	}

	aliases := AliasSet(canonical,
		p.Data.ResponseID,
		p.Data.SubmissionID,
		p.Data.RespondentID,
		p.EventID,
	)

	if err := i.store.PutAll(ctx, aliases, result); err != nil {
		metrics.WebhooksFailed.WithLabelValues("cache_write").Inc()
		return nil, apperrors.NewCacheWriteFailedError(err)
	}

	metrics.WebhooksIngested.Inc()
	i.logger.Info("submission ingested", map[string]interface{}{
		"submissionId": canonical,
		"nombre":       nombre,
		"aliases":      aliases,
		"fields":       len(p.Data.Fields),
	})
	return result, nil
}
