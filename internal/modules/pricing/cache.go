// README: Redis read-through cache in front of a pricing Catalog.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyVehicleClasses = "pricing:catalog:vehicle_classes"
	cacheKeyDistanceBands  = "pricing:catalog:distance_bands"
	cacheKeyExtras         = "pricing:catalog:extras"
)

func rateCacheKey(vehicleClassID, distanceBandID string) string {
	return fmt.Sprintf("pricing:rate:%s:%s", vehicleClassID, distanceBandID)
}

// CachedCatalog serves reference data from Redis and falls back to next on a miss.
// Redis failures are logged and never fail a lookup.
type CachedCatalog struct {
	next   Catalog
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedCatalog(next Catalog, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCatalog{next: next, redis: rdb, ttl: ttl, logger: logger.Named("pricing.cache")}
}

func (c *CachedCatalog) GetVehicleClasses(ctx context.Context) ([]VehicleClass, error) {
	return readThrough(ctx, c, cacheKeyVehicleClasses, c.next.GetVehicleClasses)
}

func (c *CachedCatalog) GetDistanceBands(ctx context.Context) ([]DistanceBand, error) {
	return readThrough(ctx, c, cacheKeyDistanceBands, c.next.GetDistanceBands)
}

func (c *CachedCatalog) GetExtraServiceDefinitions(ctx context.Context) ([]ExtraServiceDefinition, error) {
	return readThrough(ctx, c, cacheKeyExtras, c.next.GetExtraServiceDefinitions)
}

func (c *CachedCatalog) GetRate(ctx context.Context, vehicleClassID, distanceBandID string) (PricingRate, error) {
	return readThrough(ctx, c, rateCacheKey(vehicleClassID, distanceBandID), func(ctx context.Context) (PricingRate, error) {
		return c.next.GetRate(ctx, vehicleClassID, distanceBandID)
	})
}

// Invalidate drops every cached catalog entry, e.g. after reseeding.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	keys := []string{cacheKeyVehicleClasses, cacheKeyDistanceBands, cacheKeyExtras}
	iter := c.redis.Scan(ctx, 0, "pricing:rate:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.redis.Del(ctx, keys...).Err()
}

// readThrough caches successful lookups only; errors from next are returned as-is.
func readThrough[T any](ctx context.Context, c *CachedCatalog, key string, load func(context.Context) (T, error)) (T, error) {
	raw, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var v T
		jerr := json.Unmarshal([]byte(raw), &v)
		if jerr == nil {
			return v, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(jerr))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return v, nil
	}
	if err := c.redis.Set(ctx, key, string(b), c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
