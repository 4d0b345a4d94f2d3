package polls

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pollboard/pollboard/backend/go-services/pkg/logger"
)

// ListingsCache caches per-owner poll listings in Redis. Any write to one of
// the owner's polls invalidates the cached listing, so reads after a mutation
// always hit the repository. A nil client disables caching.
type ListingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingsCache(client *redis.Client, ttl time.Duration) *ListingsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ListingsCache{client: client, ttl: ttl}
}

func (c *ListingsCache) key(ownerID string) string {
	return "polls:listing:" + ownerID
}

// Get returns the cached listing, or nil on miss or when caching is disabled.
func (c *ListingsCache) Get(ctx context.Context, ownerID string) []*Poll {
	if c == nil || c.client == nil {
		return nil
	}
	b, err := c.client.Get(ctx, c.key(ownerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("listings cache read failed: %v", err)
		}
		return nil
	}
	var out []*Poll
	if err := json.Unmarshal(b, &out); err != nil {
		logger.Warnf("listings cache decode failed: %v", err)
		return nil
	}
	return out
}

// Set stores the listing. Cache failures are logged, never surfaced.
func (c *ListingsCache) Set(ctx context.Context, ownerID string, listing []*Poll) {
	if c == nil || c.client == nil {
		return
	}
	b, err := json.Marshal(listing)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(ownerID), b, c.ttl).Err(); err != nil {
		logger.Warnf("listings cache write failed: %v", err)
	}
}

// Invalidate drops the owner's cached listing.
func (c *ListingsCache) Invalidate(ctx context.Context, ownerID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(ownerID)).Err(); err != nil {
		logger.Warnf("listings cache invalidate failed: %v", err)
	}
}
