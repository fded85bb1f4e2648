package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/infrastructure/cache"
)

// cacheAside fronts a report computation with a best-effort cache.
// Cache errors are logged and swallowed: a broken cache degrades to
// recomputation, never to a request failure.
type cacheAside struct {
	cache *cache.Store
	ttl   time.Duration
	log   *zap.Logger
}

func newCacheAside(c *cache.Store, ttl time.Duration, log *zap.Logger) cacheAside {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return cacheAside{cache: c, ttl: ttl, log: log}
}

func (c cacheAside) get(ctx context.Context, key string, dest any) bool {
	if c.cache == nil {
		return false
	}
	hit, err := c.cache.GetJSON(ctx, key, dest)
	if err != nil {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (c cacheAside) set(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SetJSON(ctx, key, value, c.ttl); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
