package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	config "github.com/lumicart/storefront-cache/configs"
	"github.com/lumicart/storefront-cache/internal/core/domain/catalog"
)

const productsPath = "/products"

// CatalogService serves product data through the cache wrapper. Listing
// results churn, so they get the short TTL; single products get medium.
type CatalogService struct {
	client  *CachedClient
	listTTL time.Duration
	itemTTL time.Duration
	logger  *logrus.Logger
}

func NewCatalogService(client *CachedClient, cfg *config.CacheConfig, logger *logrus.Logger) *CatalogService {
	listTTL := cfg.TTLShort
	if listTTL <= 0 {
		listTTL = 2 * time.Minute
	}
	itemTTL := cfg.TTLMedium
	if itemTTL <= 0 {
		itemTTL = 10 * time.Minute
	}
	return &CatalogService{client: client, listTTL: listTTL, itemTTL: itemTTL, logger: logger}
}

// List returns the product listing for filter. Equivalent filters map
// to the same cache key via the canonical query serialization.
func (s *CatalogService) List(ctx context.Context, filter catalog.ListFilter) (*catalog.ProductList, bool, error) {
	list, res, err := GetCachedAs[catalog.ProductList](ctx, s.client, productsPath, FetchOptions{
		Query: filter.Query(),
		TTL:   s.listTTL,
	})
	if err != nil {
		return nil, false, err
	}
	return list, res.FromCache, nil
}

// GetProduct returns one product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, _, err := GetCachedAs[catalog.Product](ctx, s.client, productsPath+"/"+id.String(), FetchOptions{
		TTL: s.itemTTL,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
