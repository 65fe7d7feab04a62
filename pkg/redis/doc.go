// Package redis connects to a Redis server with retry and exposes a
// healthcheck probe. It backs the shared tenant cache used by the tenant
// resolution middleware when several instances need to agree on lookups:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	cache := tenant.NewRedisCache(client, "tenant:")
//
// Configuration comes from the environment through pkg/config.
package redis
