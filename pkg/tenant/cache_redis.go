package tenant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCache shares resolved tenants across service instances. Useful when
// many replicas sit behind one load balancer and each would otherwise warm
// its own in-memory cache with the same provider lookups.
type redisCache struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisCache creates a tenant cache backed by the given Redis client.
// Keys are namespaced with the prefix (default "tenant:"). Closing the
// cache does not close the client; it is typically shared.
func NewRedisCache(client *redis.Client, keyPrefix string) Cache {
	if keyPrefix == "" {
		keyPrefix = "tenant:"
	}
	return &redisCache{client: client, keyPrefix: keyPrefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		// Cache misses and transport failures look the same to callers:
		// the provider is authoritative either way.
		return nil, false
	}

	var tenant Tenant
	if err := json.Unmarshal(raw, &tenant); err != nil {
		return nil, false
	}
	return &tenant, true
}

func (c *redisCache) Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) {
	raw, err := json.Marshal(tenant)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.keyPrefix+key, raw, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	_ = c.client.Del(ctx, c.keyPrefix+key).Err()
}

func (c *redisCache) Close() error {
	return nil
}
