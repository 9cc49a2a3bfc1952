package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const flushBatch = 100

// RedisStore keeps entries in Redis under a common prefix so that Flush only
// touches keys it owns.
type RedisStore struct {
	inner  *redis.Client
	prefix string
}

// DialRedis connects to Redis and verifies the connection.
func DialRedis(ctx context.Context, host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0, // use default DB
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{inner: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.inner.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.Wrap(s.inner.Set(ctx, s.prefix+key, value, ttl).Err(), "redis set")
}

// Flush scans every owned key before deleting any of them. Deleting while
// the cursor advances lets keys slip past the scan.
func (s *RedisStore) Flush(ctx context.Context) error {
	var keys []string
	iter := s.inner.Scan(ctx, 0, s.prefix+"*", flushBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "redis scan")
	}

	for start := 0; start < len(keys); start += flushBatch {
		end := start + flushBatch
		if end > len(keys) {
			end = len(keys)
		}
		if err := s.inner.Del(ctx, keys[start:end]...).Err(); err != nil {
			return errors.Wrap(err, "redis del")
		}
	}
	return nil
}
