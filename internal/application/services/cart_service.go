package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	config "github.com/lumicart/storefront-cache/configs"
	"github.com/lumicart/storefront-cache/internal/core/domain/cart"
	"github.com/lumicart/storefront-cache/internal/core/ports"
)

const cartPath = "/cart"

// CartService reads the cart through the stale-while-revalidate wrapper
// and writes every mutation response through to the cache, so the UI
// never flashes outdated data right after a user action.
type CartService struct {
	client *CachedClient
	cache  ports.CacheManager
	api    ports.APIClient
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCartService(client *CachedClient, cache ports.CacheManager, api ports.APIClient, cfg *config.CacheConfig, logger *logrus.Logger) *CartService {
	ttl := cfg.TTLShort
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &CartService{client: client, cache: cache, api: api, ttl: ttl, logger: logger}
}

// Get returns the cart snapshot, served from cache when available.
func (s *CartService) Get(ctx context.Context) (*cart.Cart, error) {
	c, _, err := GetCachedAs[cart.Cart](ctx, s.client, cartPath, FetchOptions{Key: ports.KeyCart, TTL: s.ttl})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Count returns the item count for badge-style consumers. It prefers
// the dedicated count entry and falls back to fetching the cart.
func (s *CartService) Count(ctx context.Context) (int, error) {
	if count, _, ok := LookupAs[cart.Count](ctx, s.cache, ports.KeyCartCount); ok {
		return count.Count, nil
	}
	c, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	n := c.ItemCount()
	s.cache.Set(ctx, ports.KeyCartCount, cart.Count{Count: n}, s.ttl)
	return n, nil
}

// AddItem adds a product to the cart and writes the authoritative
// response through the cache.
func (s *CartService) AddItem(ctx context.Context, productID uuid.UUID, quantity int) (*cart.Cart, error) {
	raw, err := s.api.Post(ctx, cartPath+"/items", &cart.AddItemRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, raw)
}

// UpdateItem changes a line item's quantity.
func (s *CartService) UpdateItem(ctx context.Context, productID uuid.UUID, quantity int) (*cart.Cart, error) {
	raw, err := s.api.Put(ctx, cartPath+"/items/"+productID.String(), &cart.UpdateItemRequest{Quantity: quantity})
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, raw)
}

// RemoveItem deletes a line item.
func (s *CartService) RemoveItem(ctx context.Context, productID uuid.UUID) (*cart.Cart, error) {
	raw, err := s.api.Delete(ctx, cartPath+"/items/"+productID.String())
	if err != nil {
		return nil, err
	}
	return s.writeThrough(ctx, raw)
}

func (s *CartService) writeThrough(ctx context.Context, raw json.RawMessage) (*cart.Cart, error) {
	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart response: %w", err)
	}
	s.cache.Set(ctx, ports.KeyCart, c, s.ttl)
	s.cache.Set(ctx, ports.KeyCartCount, cart.Count{Count: c.ItemCount()}, s.ttl)
	return &c, nil
}
