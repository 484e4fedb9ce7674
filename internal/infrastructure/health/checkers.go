package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/lumicart/storefront-cache/internal/core/ports"
	"github.com/lumicart/storefront-cache/internal/infrastructure/pgstore"
)

// pgStoreHealthChecker wraps the Postgres store backend.
type pgStoreHealthChecker struct{ store *pgstore.Store }

func (p *pgStoreHealthChecker) Name() string                    { return "postgres-store" }
func (p *pgStoreHealthChecker) Check(ctx context.Context) error { return p.store.DB().PingContext(ctx) }

// redisStoreHealthChecker wraps the Redis store backend.
type redisStoreHealthChecker struct{ client *redis.Client }

func (r *redisStoreHealthChecker) Name() string                    { return "redis-store" }
func (r *redisStoreHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewPgStoreHealthChecker creates a health checker for the Postgres store backend.
func NewPgStoreHealthChecker(store *pgstore.Store) ports.HealthChecker {
	return &pgStoreHealthChecker{store: store}
}

// NewRedisStoreHealthChecker creates a health checker for the Redis store backend.
func NewRedisStoreHealthChecker(client *redis.Client) ports.HealthChecker {
	return &redisStoreHealthChecker{client: client}
}
