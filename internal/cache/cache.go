// Package cache memoizes rendered pages in a keyed store with a fixed
// time-to-live and an explicit flush.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTTL is how long a rendered feed page is served before recomputing.
const DefaultTTL = 20 * time.Second

// Store is a shared key/value store with per-entry expiry.
type Store interface {
	// Get returns the value and true on a live hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Flush drops every entry regardless of remaining time-to-live.
	Flush(ctx context.Context) error
}

// Key builds the cache key of a feed page.
func Key(feed string, page int) string {
	return fmt.Sprintf("feed:%s:page=%d", feed, page)
}

// PageCache serves rendered pages out of a Store, rendering on a miss.
type PageCache struct {
	store Store
	ttl   time.Duration
	log   *logrus.Entry
}

func NewPageCache(store Store, ttl time.Duration, log *logrus.Logger) *PageCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PageCache{
		store: store,
		ttl:   ttl,
		log:   log.WithField("component", "page_cache"),
	}
}

// Fetch returns the cached bytes for key, or calls render and stores its
// output. Store failures degrade to rendering; they are logged, not returned.
func (c *PageCache) Fetch(ctx context.Context, key string, render func() ([]byte, error)) ([]byte, error) {
	body, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache read failed")
	} else if ok {
		return body, nil
	}

	body, err = render()
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, body, c.ttl); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return body, nil
}

func (c *PageCache) Flush(ctx context.Context) error {
	if err := c.store.Flush(ctx); err != nil {
		return err
	}
	c.log.Info("page cache flushed")
	return nil
}
