package config

import (
	"context"
	"fmt"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/sirupsen/logrus"
)

const cachePrefix = "yatube:"

// InitCacheStore opens the response cache backend named by CACHE_BACKEND.
// The returned func releases the backend.
func InitCacheStore(ctx context.Context, cfg *Config, log *logrus.Logger) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case "", "memory":
		log.Info("Using in-process page cache")
		return cache.NewMemoryStore(), func() {}, nil
	case "redis":
		client, err := cache.DialRedis(ctx, cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("addr", cfg.RedisHost+":"+cfg.RedisPort).Info("Using Redis page cache")
		return cache.NewRedisStore(client, cachePrefix), func() { client.Close() }, nil
	case "badger":
		db, err := cache.OpenBadger(cfg.BadgerPath, log.WithField("component", "badger"))
		if err != nil {
			return nil, nil, err
		}
		log.WithField("path", cfg.BadgerPath).Info("Using Badger page cache")
		return cache.NewBadgerStore(db, cachePrefix), func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown CACHE_BACKEND %q", cfg.CacheBackend)
}
