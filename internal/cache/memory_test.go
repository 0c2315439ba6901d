package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"brandpulse/internal/common/logger"
	"brandpulse/internal/scores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestStore(t *testing.T, ttl time.Duration) *MemoryStore {
	return NewMemoryStore(ttl, logger.NewTestLogger(t))
}

func testResult(submissionID, nombre string, calidad int) *Result {
	return &Result{
		SubmissionID: submissionID,
		Nombre:       nombre,
		Scores:       scores.ScoreVector{Calidad: calidad},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestMemoryStore_PutAll_AliasConsistency(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	aliases := []string{"resp-1", "sub-1", "respondent-1", "evt-1"}
	require.NoError(t, store.PutAll(ctx, aliases, testResult("resp-1", "Ana", 76)))

	for _, alias := range aliases {
		got, ok, err := store.Get(ctx, alias)
		require.NoError(t, err)
		require.True(t, ok, "alias %s should resolve", alias)
		assert.Equal(t, "resp-1", got.SubmissionID)
		assert.Equal(t, "Ana", got.Nombre)
		assert.Equal(t, 76, got.Scores.Calidad)
	}
}

func TestMemoryStore_Get_UnknownKey(t *testing.T) {
	store := newTestStore(t, time.Hour)

	got, ok, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "resp-1", testResult("resp-1", "Ana", 50)))
	require.NoError(t, store.Put(ctx, "resp-1", testResult("resp-1", "Ana", 90)))

	got, ok, err := store.Get(ctx, "resp-1")
	require.NoError(t, err)
	require.True(t, ok)
	// Last write wins whole, never a merge.
	assert.Equal(t, 90, got.Scores.Calidad)
	assert.Equal(t, 0, got.Scores.Relevancia)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }
	require.NoError(t, store.Put(ctx, "resp-1", testResult("resp-1", "Ana", 76)))

	// Still retrievable just under the TTL.
	store.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, ok, err := store.Get(ctx, "resp-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Absent past the TTL, and the lookup evicts the entry.
	store.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, ok, err = store.Get(ctx, "resp-1")
	require.NoError(t, err)
	assert.False(t, ok)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestMemoryStore_OverwriteResetsAge(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }
	require.NoError(t, store.Put(ctx, "resp-1", testResult("resp-1", "Ana", 10)))

	store.now = func() time.Time { return base.Add(50 * time.Minute) }
	require.NoError(t, store.Put(ctx, "resp-1", testResult("resp-1", "Ana", 20)))

	// 70 minutes after the first write but only 20 after the second.
	store.now = func() time.Time { return base.Add(70 * time.Minute) }
	got, ok, err := store.Get(ctx, "resp-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 20, got.Scores.Calidad)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }
	require.NoError(t, store.Put(ctx, "old-1", testResult("old-1", "Ana", 10)))
	require.NoError(t, store.Put(ctx, "old-2", testResult("old-2", "Luis", 20)))

	store.now = func() time.Time { return base.Add(55 * time.Minute) }
	require.NoError(t, store.Put(ctx, "fresh", testResult("fresh", "Marta", 30)))

	store.now = func() time.Time { return base.Add(65 * time.Minute) }
	cleared, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	_, ok, _ := store.Get(ctx, "fresh")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "old-1")
	assert.False(t, ok)
}

func TestMemoryStore_Stats(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }
	require.NoError(t, store.Put(ctx, "resp-1", testResult("resp-1", "Ana", 76)))

	store.now = func() time.Time { return base.Add(90 * time.Second) }
	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, stats.Total)
	assert.Equal(t, "resp-1", stats.Entries[0].ID)
	assert.Equal(t, "Ana", stats.Entries[0].Nombre)
	assert.Equal(t, int64(90), stats.Entries[0].AgeSeconds)
}

// ==========================
// Concurrency Tests
// ==========================

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = store.PutAll(ctx, []string{"resp-1", "sub-1"}, testResult("resp-1", "Ana", 76))
		}()
		go func() {
			defer wg.Done()
			_, _, _ = store.Get(ctx, "sub-1")
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Sweep(ctx)
		}()
	}
	wg.Wait()

	got, ok, err := store.Get(ctx, "resp-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 76, got.Scores.Calidad)
}
