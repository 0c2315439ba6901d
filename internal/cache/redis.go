package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brandpulse/internal/common/logger"
	"brandpulse/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "result:"

// RedisStore is the redis-backed cache backend. Expiry is delegated to
// redis's native TTL, so Sweep is a no-op; multi-alias registration goes
// through a MULTI/EXEC pipeline so readers never see a partial alias set.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "result-cache-redis"}),
	}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *RedisStore) Put(ctx context.Context, id string, result *Result) error {
	return s.PutAll(ctx, []string{id}, result)
}

func (s *RedisStore) PutAll(ctx context.Context, ids []string, result *Result) error {
	stored := *result
	stored.Timestamp = time.Now().UnixMilli()

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal cached result: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Set(ctx, redisKey(id), data, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis putall: %w", err)
	}

	s.logger.Info("result cached", map[string]interface{}{
		"submissionId": stored.SubmissionID,
		"aliases":      len(ids),
	})
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Result, bool, error) {
	val, err := s.client.Get(ctx, redisKey(id)).Result()
	if err == redis.Nil {
		metrics.CacheMisses.Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached result: %w", err)
	}

	metrics.CacheHits.Inc()
	return &result, true, nil
}

// Sweep is a no-op for redis, which expires entries on its own.
func (s *RedisStore) Sweep(_ context.Context) (int, error) {
	return 0, nil
}

func (s *RedisStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Entries: []EntryStat{}}
	now := time.Now().UnixMilli()

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, fmt.Errorf("redis stats: %w", err)
		}

		var result Result
		if err := json.Unmarshal([]byte(val), &result); err != nil {
			continue
		}
		stats.Entries = append(stats.Entries, EntryStat{
			ID:         key[len(redisKeyPrefix):],
			Nombre:     result.Nombre,
			AgeSeconds: (now - result.Timestamp) / 1000,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis stats scan: %w", err)
	}

	stats.Total = len(stats.Entries)
	return stats, nil
}
