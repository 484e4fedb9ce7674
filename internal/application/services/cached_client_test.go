package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumicart/storefront-cache/internal/application/services"
	"github.com/lumicart/storefront-cache/internal/infrastructure/memstore"
	"github.com/lumicart/storefront-cache/test/mocks"
)

func TestGetCachedColdMiss(t *testing.T) {
	ctx := context.Background()
	cache := services.NewCacheService(memstore.New(), cacheConfig(), nil)

	var calls int32
	api := &mocks.APIClientMock{
		GetFn: func(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
			atomic.AddInt32(&calls, 1)
			require.Equal(t, "/products", path)
			return json.RawMessage(`{"products":["p1","p2"]}`), nil
		},
	}
	client := services.NewCachedClient(cache, api, nil)

	res, err := client.GetCached(ctx, "/products", services.FetchOptions{TTL: time.Minute})
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.False(t, res.Stale)
	require.JSONEq(t, `{"products":["p1","p2"]}`, string(res.Data))
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// The miss wrote the entry; a subsequent cache read is fresh.
	require.True(t, cache.IsFresh(ctx, "/products_{}"))
}

func TestGetCachedWarmFreshSkipsNetwork(t *testing.T) {
	ctx := context.Background()
	cache := services.NewCacheService(memstore.New(), cacheConfig(), nil)
	cache.Set(ctx, "/products_{}", map[string]any{"products": []string{"cached"}}, time.Hour)

	var calls int32
	api := &mocks.APIClientMock{
		GetFn: func(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
			atomic.AddInt32(&calls, 1)
			return json.RawMessage(`{}`), nil
		},
	}
	client := services.NewCachedClient(cache, api, nil)

	res, err := client.GetCached(ctx, "/products", services.FetchOptions{})
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.False(t, res.Stale)
	require.JSONEq(t, `{"products":["cached"]}`, string(res.Data))
	require.EqualValues(t, 0, atomic.LoadInt32(&calls), "fresh hits must not touch the network")
}

func TestGetCachedWarmStaleRevalidatesInBackground(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	cache := services.NewCacheService(memstore.New(), cacheConfig(), nil).
		WithClock(func() time.Time { return now })

	cache.Set(ctx, "/products_{}", map[string]any{"products": []string{"old"}}, time.Minute)
	now = now.Add(5 * time.Minute)

	var calls int32
	api := &mocks.APIClientMock{
		GetFn: func(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
			atomic.AddInt32(&calls, 1)
			return json.RawMessage(`{"products":["new"]}`), nil
		},
	}
	client := services.NewCachedClient(cache, api, nil)

	res, err := client.GetCached(ctx, "/products", services.FetchOptions{TTL: time.Minute})
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.True(t, res.Stale)
	require.JSONEq(t, `{"products":["old"]}`, string(res.Data), "stale value is served synchronously")

	require.Eventually(t, func() bool {
		lookup, ok := cache.Get(ctx, "/products_{}")
		return ok && string(lookup.Data) == `{"products":["new"]}`
	}, 2*time.Second, 10*time.Millisecond, "background revalidation updates the store")
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetCachedStaleServedEvenWhenRevalidationFails(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	cache := services.NewCacheService(memstore.New(), cacheConfig(), nil).
		WithClock(func() time.Time { return now })

	cache.Set(ctx, "/cart_{}", map[string]any{"items": []string{"x"}}, time.Minute)
	now = now.Add(5 * time.Minute)

	var calls int32
	api := &mocks.APIClientMock{
		GetFn: func(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("network down")
		},
	}
	client := services.NewCachedClient(cache, api, nil)

	res, err := client.GetCached(ctx, "/cart", services.FetchOptions{})
	require.NoError(t, err, "revalidation failure never surfaces to the caller")
	require.True(t, res.Stale)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Prior stale value remains authoritative.
	lookup, ok := cache.Get(ctx, "/cart_{}")
	require.True(t, ok)
	require.JSONEq(t, `{"items":["x"]}`, string(lookup.Data))
}

func TestGetCachedMissPathErrorPropagates(t *testing.T) {
	ctx := context.Background()
	cache := services.NewCacheService(memstore.New(), cacheConfig(), nil)
	api := &mocks.APIClientMock{
		GetFn: func(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
			return nil, errors.New("connection refused")
		},
	}
	client := services.NewCachedClient(cache, api, nil)

	_, err := client.GetCached(ctx, "/products", services.FetchOptions{})
	require.Error(t, err, "no fallback data exists on the miss path")
}

func TestGetCachedQueryParamsDistinguishKeys(t *testing.T) {
	ctx := context.Background()
	cache := services.NewCacheService(memstore.New(), cacheConfig(), nil)
	api := &mocks.APIClientMock{
		GetFn: func(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
			return json.RawMessage(`{"page":"` + query["page"] + `"}`), nil
		},
	}
	client := services.NewCachedClient(cache, api, nil)

	res1, err := client.GetCached(ctx, "/products", services.FetchOptions{Query: map[string]string{"page": "1"}})
	require.NoError(t, err)
	res2, err := client.GetCached(ctx, "/products", services.FetchOptions{Query: map[string]string{"page": "2"}})
	require.NoError(t, err)
	require.NotEqual(t, string(res1.Data), string(res2.Data))

	// Same params hit the same entry.
	res3, err := client.GetCached(ctx, "/products", services.FetchOptions{Query: map[string]string{"page": "1"}})
	require.NoError(t, err)
	require.True(t, res3.FromCache)
	require.JSONEq(t, string(res1.Data), string(res3.Data))
}

func TestGetCachedKeyOverride(t *testing.T) {
	ctx := context.Background()
	cache := services.NewCacheService(memstore.New(), cacheConfig(), nil)
	api := &mocks.APIClientMock{
		GetFn: func(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
			return json.RawMessage(`{"items":[]}`), nil
		},
	}
	client := services.NewCachedClient(cache, api, nil)

	_, err := client.GetCached(ctx, "/cart", services.FetchOptions{Key: "cart"})
	require.NoError(t, err)
	require.True(t, cache.IsFresh(ctx, "cart"))
}
