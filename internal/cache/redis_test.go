package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, "yatube:"), mr, client
}

func TestRedisStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s, mr, _ := newRedisStore(t)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, Key("index", 1), []byte("page"), 20*time.Second))
	v, ok, err := s.Get(ctx, Key("index", 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("page"), v)
	assert.True(t, mr.Exists("yatube:feed:index:page=1"))

	mr.FastForward(21 * time.Second)
	_, ok, err = s.Get(ctx, Key("index", 1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreFlushOnlyOwnKeys(t *testing.T) {
	ctx := context.Background()
	s, mr, client := newRedisStore(t)

	for i := 1; i <= 150; i++ {
		require.NoError(t, s.Set(ctx, Key("index", i), []byte("x"), time.Minute))
	}
	require.NoError(t, client.Set(ctx, "other", "keep", 0).Err())

	require.NoError(t, s.Flush(ctx))

	_, ok, err := s.Get(ctx, Key("index", 1))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("other"))
	assert.Len(t, mr.Keys(), 1)
}

func TestRedisStoreFlushDropsEveryPage(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newRedisStore(t)

	const pages = 3*flushBatch/2 + 7
	for i := 1; i <= pages; i++ {
		require.NoError(t, s.Set(ctx, Key("index", i), []byte("stale"), time.Minute))
	}

	require.NoError(t, s.Flush(ctx))

	var served []int
	for i := 1; i <= pages; i++ {
		_, ok, err := s.Get(ctx, Key("index", i))
		require.NoError(t, err)
		if ok {
			served = append(served, i)
		}
	}
	assert.Empty(t, served, "pages still cached after flush")
}
