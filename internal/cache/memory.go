package cache

import (
	"context"
	"sync"
	"time"

	"brandpulse/internal/common/logger"
	"brandpulse/internal/common/metrics"
)

type memoryEntry struct {
	result   Result
	storedAt time.Time
}

// MemoryStore is the default in-process cache backend. All operations share
// one mutex, so a Put that returned is visible to every later Get regardless
// of which alias it uses, and PutAll is atomic across its whole alias set.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	logger  logger.Logger
}

func NewMemoryStore(ttl time.Duration, log logger.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  log.WithFields(map[string]interface{}{"component": "result-cache"}),
	}
}

func (s *MemoryStore) Put(ctx context.Context, id string, result *Result) error {
	return s.PutAll(ctx, []string{id}, result)
}

func (s *MemoryStore) PutAll(_ context.Context, ids []string, result *Result) error {
	now := s.now()
	stored := *result
	stored.Timestamp = now.UnixMilli()

	s.mu.Lock()
	for _, id := range ids {
		s.entries[id] = memoryEntry{result: stored, storedAt: now}
	}
	total := len(s.entries)
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(total))
	s.logger.Info("result cached", map[string]interface{}{
		"submissionId": stored.SubmissionID,
		"aliases":      len(ids),
		"entries":      total,
	})
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Result, bool, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		metrics.CacheMisses.Inc()
		return nil, false, nil
	}

	if s.now().Sub(entry.storedAt) > s.ttl {
		// Expired entries are evicted on lookup, not just by the sweep.
		delete(s.entries, id)
		total := len(s.entries)
		s.mu.Unlock()

		metrics.CacheMisses.Inc()
		metrics.CacheEvictions.Inc()
		metrics.CacheEntries.Set(float64(total))
		s.logger.Debug("cached result expired", map[string]interface{}{"id": id})
		return nil, false, nil
	}

	result := entry.result
	s.mu.Unlock()

	metrics.CacheHits.Inc()
	return &result, true, nil
}

// Sweep removes every entry older than the TTL, bounding memory growth for
// keys that are never read again.
func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	now := s.now()

	s.mu.Lock()
	cleared := 0
	for id, entry := range s.entries {
		if now.Sub(entry.storedAt) > s.ttl {
			delete(s.entries, id)
			cleared++
		}
	}
	total := len(s.entries)
	s.mu.Unlock()

	if cleared > 0 {
		metrics.CacheEvictions.Add(float64(cleared))
		metrics.CacheEntries.Set(float64(total))
		s.logger.Info("swept expired results", map[string]interface{}{
			"cleared":   cleared,
			"remaining": total,
		})
	}
	return cleared, nil
}

func (s *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	now := s.now()

	s.mu.Lock()
	stats := &Stats{
		Total:   len(s.entries),
		Entries: make([]EntryStat, 0, len(s.entries)),
	}
	for id, entry := range s.entries {
		stats.Entries = append(stats.Entries, EntryStat{
			ID:         id,
			Nombre:     entry.result.Nombre,
			AgeSeconds: int64(now.Sub(entry.storedAt).Seconds()),
		})
	}
	s.mu.Unlock()

	return stats, nil
}
