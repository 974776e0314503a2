// internal/common/cache/property_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/models"

	"github.com/redis/go-redis/v9"
)

// PropertyCache is an injected read-through cache for property aggregates.
// The detail and search surfaces read through it; the scoring worker
// invalidates after every aggregate overwrite. Cache misses and Redis
// failures both fall back to the loader, so the cache is never a
// correctness dependency.
type PropertyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func New(client *redis.Client, ttl time.Duration, log logger.Logger) *PropertyCache {
	return &PropertyCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "property-cache"}),
	}
}

func cacheKey(propertyID string) string {
	return fmt.Sprintf("property:aggregate:%s", propertyID)
}

// Loader fetches the authoritative aggregate when the cache has no entry.
type Loader func(ctx context.Context, propertyID string) (*models.PropertyAggregate, error)

// Fetch returns the cached aggregate for a property, loading and caching it
// on miss.
func (c *PropertyCache) Fetch(ctx context.Context, propertyID string, load Loader) (*models.PropertyAggregate, error) {
	if cached, ok := c.get(ctx, propertyID); ok {
		return cached, nil
	}

	agg, err := load(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, agg)
	return agg, nil
}

// Invalidate drops the cached entry for a property. Failures are logged and
// swallowed; a stale entry expires by TTL anyway.
func (c *PropertyCache) Invalidate(ctx context.Context, propertyID string) {
	if err := c.client.Del(ctx, cacheKey(propertyID)).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", map[string]interface{}{
			"propertyId": propertyID,
			"error":      err,
		})
	}
}

func (c *PropertyCache) get(ctx context.Context, propertyID string) (*models.PropertyAggregate, bool) {
	val, err := c.client.Get(ctx, cacheKey(propertyID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", map[string]interface{}{
				"propertyId": propertyID,
				"error":      err,
			})
		}
		return nil, false
	}

	var agg models.PropertyAggregate
	if err := json.Unmarshal([]byte(val), &agg); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", map[string]interface{}{
			"propertyId": propertyID,
			"error":      err,
		})
		c.Invalidate(ctx, propertyID)
		return nil, false
	}

	return &agg, true
}

func (c *PropertyCache) set(ctx context.Context, agg *models.PropertyAggregate) {
	body, err := json.Marshal(agg)
	if err != nil {
		c.logger.Warn("cache encode failed", map[string]interface{}{
			"propertyId": agg.PropertyID,
			"error":      err,
		})
		return
	}

	if err := c.client.Set(ctx, cacheKey(agg.PropertyID), body, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"propertyId": agg.PropertyID,
			"error":      err,
		})
	}
}
