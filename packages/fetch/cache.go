package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"scraper/packages/metrics"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "scraper:page:"

// Cached wraps a Fetcher with a Redis page cache so re-running the failed
// subset of a long batch does not re-hit the source site for pages it already
// served. Cache trouble degrades to a plain fetch, never to a failed job.
type Cached struct {
	next Fetcher
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCached(next Fetcher, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl}
}

func (c *Cached) Fetch(ctx context.Context, url, waitFor string) (string, error) {
	key := cacheKeyPrefix + url

	html, err := c.rdb.Get(ctx, key).Result()
	if err == nil && html != "" {
		slog.Debug("Page cache hit", "url", url)
		metrics.PageCacheHits.Inc()
		return html, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("Page cache read failed", "url", url, "error", err)
	}

	html, err = c.next.Fetch(ctx, url, waitFor)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, html, c.ttl).Err(); err != nil {
		slog.Warn("Page cache write failed", "url", url, "error", err)
	}
	return html, nil
}
