package feed

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/angelmondragon/storefeed-backend/pkg/cache"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
	"github.com/angelmondragon/storefeed-backend/pkg/metrics"
)

// DefaultCandidateTTL is how long a scored candidate list stays cached.
const DefaultCandidateTTL = time.Hour

// candidateCache stores scored candidate lists. The cache is best effort:
// read and decode failures degrade to a miss, write failures are logged.
type candidateCache struct {
	store   cache.Store
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.FeedMetrics
}

// load returns the cached list, or ok=false on miss or failure.
func (c candidateCache) load(ctx context.Context, key string) ([]Candidate, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			c.metrics.ObserveCacheLookup(metrics.CacheMiss)
			return nil, false
		}
		c.metrics.ObserveCacheLookup(metrics.CacheError)
		c.warn(ctx, "feed.cache.read_failed", key, err)
		return nil, false
	}

	var candidates []Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		c.metrics.ObserveCacheLookup(metrics.CacheError)
		c.warn(ctx, "feed.cache.decode_failed", key, err)
		return nil, false
	}
	c.metrics.ObserveCacheLookup(metrics.CacheHit)
	return candidates, true
}

func (c candidateCache) save(ctx context.Context, key string, candidates []Candidate) {
	if candidates == nil {
		candidates = []Candidate{}
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		c.warn(ctx, "feed.cache.encode_failed", key, err)
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.warn(ctx, "feed.cache.write_failed", key, err)
	}
}

func (c candidateCache) invalidate(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.warn(ctx, "feed.cache.delete_failed", key, err)
	}
}

func (c candidateCache) warn(ctx context.Context, msg, key string, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()})
	c.logg.Warn(ctx, msg)
}
