package config

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestInitCacheStoreBackends(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cases := []struct {
		cfg  Config
		want interface{}
	}{
		{Config{CacheBackend: "memory"}, &cache.MemoryStore{}},
		{Config{CacheBackend: "redis", RedisHost: mr.Host(), RedisPort: mr.Port()}, &cache.RedisStore{}},
		{Config{CacheBackend: "badger"}, &cache.BadgerStore{}},
	}
	for _, tc := range cases {
		t.Run(tc.cfg.CacheBackend, func(t *testing.T) {
			cfg := tc.cfg
			store, closeFn, err := InitCacheStore(ctx, &cfg, quietLogger())
			require.NoError(t, err)
			defer closeFn()
			assert.IsType(t, tc.want, store)
		})
	}
}

func TestInitCacheStoreUnknownBackend(t *testing.T) {
	_, _, err := InitCacheStore(context.Background(), &Config{CacheBackend: "memcached"}, quietLogger())
	assert.Error(t, err)
}
