package semester

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb, time.Minute), mr
}

func TestCacheMissThenHit(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	got, err := cache.Get(ctx, "2023-09-10")
	require.NoError(t, err)
	assert.Nil(t, got)

	sem := calendar().semesters[1]
	require.NoError(t, cache.Set(ctx, "2023-09-10", &sem))
	assert.True(t, mr.Exists(cacheKeyPrefix+"2023-09-10"))

	got, err = cache.Get(ctx, "2023-09-10")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sem.ID, got.ID)
	assert.True(t, sem.StartDate.Equal(got.StartDate))

	mr.FastForward(2 * time.Minute)
	got, err = cache.Get(ctx, "2023-09-10")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestServiceUsesCache(t *testing.T) {
	cache, _ := newTestCache(t)
	repo := calendar()
	svc := withToday(NewService(repo, cache, nil), "2023-09-10")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sem, ok, err := svc.Current(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Fall 2023", sem.Name)
	}
	assert.Equal(t, 1, repo.containing)
}

func TestServiceSurvivesCacheOutage(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()
	repo := calendar()
	svc := withToday(NewService(repo, cache, nil), "2023-09-10")

	sem, ok, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), sem.ID)
}
