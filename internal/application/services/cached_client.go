package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/lumicart/storefront-cache/internal/core/ports"
	"github.com/lumicart/storefront-cache/internal/infrastructure/metrics"
)

// CachedResult is what GetCached hands back to the caller.
type CachedResult struct {
	Data      json.RawMessage
	FromCache bool
	Stale     bool
}

// FetchOptions tune a single GetCached call.
type FetchOptions struct {
	// Query parameters, folded into the derived cache key.
	Query map[string]string
	// TTL for the entry written on miss or revalidation; non-positive
	// selects the cache manager's default.
	TTL time.Duration
	// Key overrides the derived resource key. Fixed-key consumers
	// (cart, profile) use it so mutations can target the same entry.
	Key string
}

// CachedClient wraps outbound reads with a stale-while-revalidate
// policy: fresh entries are served without a network call, stale
// entries are served immediately while a detached background fetch
// refreshes the store, and misses fall through to a synchronous fetch.
type CachedClient struct {
	cache  ports.CacheManager
	api    ports.APIClient
	logger *logrus.Logger

	// Coalesces concurrent background revalidations per key. Miss-path
	// fetches stay independent: each caller awaits its own request.
	revalidate singleflight.Group
}

func NewCachedClient(cache ports.CacheManager, api ports.APIClient, logger *logrus.Logger) *CachedClient {
	return &CachedClient{cache: cache, api: api, logger: logger}
}

// GetCached resolves a read. The caller is never blocked on a
// revalidation the wrapper decided to do in the background, and a
// network failure only surfaces when there is no cached data to serve.
func (c *CachedClient) GetCached(ctx context.Context, path string, opts FetchOptions) (CachedResult, error) {
	key := opts.Key
	if key == "" {
		key = ports.ResourceKey(path, opts.Query)
	}

	if lookup, ok := c.cache.Get(ctx, key); ok {
		if !lookup.Stale {
			metrics.RecordHit(false)
			return CachedResult{Data: lookup.Data, FromCache: true}, nil
		}
		metrics.RecordHit(true)
		c.revalidateInBackground(key, path, opts)
		return CachedResult{Data: lookup.Data, FromCache: true, Stale: true}, nil
	}

	metrics.RecordMiss()
	data, err := c.api.Get(ctx, path, opts.Query)
	if err != nil {
		// No fallback data to serve on the miss path.
		return CachedResult{}, err
	}
	c.cache.Set(ctx, key, json.RawMessage(data), opts.TTL)
	return CachedResult{Data: data, FromCache: false}, nil
}

// revalidateInBackground refreshes key from the network in a detached
// task. Its result is only ever observed through the store; failures
// are logged and the prior stale value stays authoritative.
func (c *CachedClient) revalidateInBackground(key, path string, opts FetchOptions) {
	go func() {
		// Deliberately detached from the caller's context: the caller
		// already got its answer.
		ctx := context.Background()
		_, err, _ := c.revalidate.Do(key, func() (any, error) {
			data, err := c.api.Get(ctx, path, opts.Query)
			if err != nil {
				return nil, err
			}
			c.cache.Set(ctx, key, json.RawMessage(data), opts.TTL)
			return nil, nil
		})
		metrics.RecordRevalidation(err)
		if err != nil && c.logger != nil {
			c.logger.WithFields(logrus.Fields{"key": key, "path": path}).WithError(err).Warn("background revalidation failed")
		}
	}()
}

// GetCachedAs is GetCached with the payload decoded into T.
func GetCachedAs[T any](ctx context.Context, c *CachedClient, path string, opts FetchOptions) (*T, CachedResult, error) {
	res, err := c.GetCached(ctx, path, opts)
	if err != nil {
		return nil, CachedResult{}, err
	}
	var v T
	if err := json.Unmarshal(res.Data, &v); err != nil {
		return nil, CachedResult{}, err
	}
	return &v, res, nil
}
