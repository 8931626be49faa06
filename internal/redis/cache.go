package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// TariffCacheTTL bounds how stale a cached rate may be. Tariff changes
// invalidate the key, so the TTL only covers out-of-band edits.
const TariffCacheTTL = 60 * time.Second

const tariffCachePrefix = "cache:tariff:"

// TariffCache caches the effective price-per-kilometer per trip type.
// A miss or a Redis error both fall through to the database; the cache is
// never authoritative.
type TariffCache struct {
	client *redis.Client
}

// NewTariffCache creates a new TariffCache.
func NewTariffCache(client *redis.Client) *TariffCache {
	return &TariffCache{client: client}
}

// GetPricePerKM retrieves the cached rate for a trip type. The second return
// reports whether the key was present.
func (c *TariffCache) GetPricePerKM(ctx context.Context, tripType string) (float64, bool, error) {
	val, err := c.client.Get(ctx, tariffCachePrefix+tripType).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}

	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}

	return price, true, nil
}

// SetPricePerKM caches the rate for a trip type.
func (c *TariffCache) SetPricePerKM(ctx context.Context, tripType string, price float64) error {
	val := strconv.FormatFloat(price, 'f', -1, 64)
	return c.client.Set(ctx, tariffCachePrefix+tripType, val, TariffCacheTTL).Err()
}

// Invalidate drops the cached rate for a trip type.
func (c *TariffCache) Invalidate(ctx context.Context, tripType string) error {
	return c.client.Del(ctx, tariffCachePrefix+tripType).Err()
}
