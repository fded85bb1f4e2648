package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/cache"
)

// ProductCatalog is the read surface over the product store. Satisfied
// by store.ProductsRepository.
type ProductCatalog interface {
	Get(ctx context.Context, id string) (*commerce.Product, error)
	List(ctx context.Context, page, pageSize int) ([]commerce.Product, int, error)
	LowStock(ctx context.Context, threshold int) ([]commerce.Product, error)
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Products []commerce.Product `json:"products"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

// ProductsService serves catalog reads and the low-stock report.
type ProductsService struct {
	cacheAside
	catalog   ProductCatalog
	threshold int
	snapshot  *cache.Snapshot
}

// NewProductsService creates the service with the configured low-stock
// threshold.
func NewProductsService(catalog ProductCatalog, threshold int, c *cache.Store, ttl time.Duration, log *zap.Logger) *ProductsService {
	if threshold <= 0 {
		threshold = 10
	}
	return &ProductsService{
		cacheAside: newCacheAside(c, ttl, log),
		catalog:    catalog,
		threshold:  threshold,
	}
}

// Get fetches one product by id.
func (s *ProductsService) Get(ctx context.Context, id string) (*commerce.Product, error) {
	return s.catalog.Get(ctx, id)
}

// List returns one catalog page.
func (s *ProductsService) List(ctx context.Context, page, pageSize int) (*ProductPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 250 {
		pageSize = 50
	}
	products, total, err := s.catalog.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: products, Total: total, Page: page, PageSize: pageSize}, nil
}

// WarmLowStock starts a background refresher for the low-stock list so
// the dashboard's most-polled report is served from memory. Runs until
// the context is cancelled.
func (s *ProductsService) WarmLowStock(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	s.snapshot = cache.NewSnapshot(func(ctx context.Context) (any, error) {
		return s.catalog.LowStock(ctx, s.threshold)
	}, interval, s.log)
	s.snapshot.Start(ctx)
}

// LowStock lists products with any variant at or below the threshold.
func (s *ProductsService) LowStock(ctx context.Context) ([]commerce.Product, error) {
	if s.snapshot != nil {
		if value, _, ok := s.snapshot.Get(); ok {
			return value.([]commerce.Product), nil
		}
	}
	key := cache.Key("products", "low-stock")
	var cached []commerce.Product
	if s.get(ctx, key, &cached) {
		return cached, nil
	}
	products, err := s.catalog.LowStock(ctx, s.threshold)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, products)
	return products, nil
}
