package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/infrastructure/ads"
	"github.com/myfrido/analytics-backend/internal/infrastructure/cache"
	"github.com/myfrido/analytics-backend/internal/infrastructure/warehouse"
)

// AdsFetcher fetches aggregate ad metrics for a date range. A nil
// fetcher means the platform is not configured and contributes zeros.
type AdsFetcher interface {
	FetchMetrics(ctx context.Context, start, end time.Time) (*ads.Metrics, error)
}

// TopSKU is one row of the best-seller report.
type TopSKU struct {
	SKU       string  `json:"sku"`
	Title     string  `json:"title"`
	UnitsSold int64   `json:"unitsSold"`
	Revenue   float64 `json:"revenue"`
}

// OrdersService builds the order/sales reports.
type OrdersService struct {
	cacheAside
	warehouse warehouse.Runner
	meta      AdsFetcher
	google    AdsFetcher
}

// NewOrdersService creates the service. meta and google may be nil;
// c may be nil to disable caching.
func NewOrdersService(wh warehouse.Runner, meta, google AdsFetcher, c *cache.Store, ttl time.Duration, log *zap.Logger) *OrdersService {
	return &OrdersService{
		cacheAside: newCacheAside(c, ttl, log),
		warehouse:  wh,
		meta:       meta,
		google:     google,
	}
}

// Overview blends warehouse sales, cost, and return aggregates with ad
// spend for the window.
func (s *OrdersService) Overview(ctx context.Context, tf Timeframe, store string) (*Overview, error) {
	key := cache.Key("orders", "overview", store, tf.CacheKey())
	var cached Overview
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}

	params := windowParams(tf, store)

	salesRows, err := s.warehouse.Query(ctx, warehouse.SalesOverviewSQL(s.warehouse.Table(warehouse.TableOrders)), params...)
	if err != nil {
		return nil, err
	}
	costRows, err := s.warehouse.Query(ctx,
		warehouse.CostBreakdownSQL(s.warehouse.Table(warehouse.TableLineItems), s.warehouse.Table(warehouse.TableSKUCosts)),
		params...)
	if err != nil {
		return nil, err
	}
	returnRows, err := s.warehouse.Query(ctx, warehouse.ReturnsSQL(s.warehouse.Table(warehouse.TableOrders)), params...)
	if err != nil {
		return nil, err
	}

	meta, err := s.fetchAds(ctx, s.meta, tf)
	if err != nil {
		return nil, err
	}
	google, err := s.fetchAds(ctx, s.google, tf)
	if err != nil {
		return nil, err
	}

	overview := BuildOverview(first(salesRows), first(costRows), first(returnRows), meta, google)
	s.set(ctx, key, overview)
	return overview, nil
}

// TopSKUs lists the best-selling SKUs for the window.
func (s *OrdersService) TopSKUs(ctx context.Context, tf Timeframe, store string, limit int) ([]TopSKU, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	key := cache.Key("orders", "top-skus", store, tf.CacheKey())
	var cached []TopSKU
	if s.get(ctx, key, &cached) {
		return cached, nil
	}

	params := append(windowParams(tf, store), warehouse.Param{Name: "limit", Value: int64(limit)})
	rows, err := s.warehouse.Query(ctx, warehouse.TopSKUsSQL(s.warehouse.Table(warehouse.TableLineItems)), params...)
	if err != nil {
		return nil, err
	}

	skus := make([]TopSKU, 0, len(rows))
	for _, row := range rows {
		skus = append(skus, TopSKU{
			SKU:       warehouse.String(row["sku"]),
			Title:     warehouse.String(row["title"]),
			UnitsSold: warehouse.Int(row["units_sold"]),
			Revenue:   warehouse.Float(row["revenue"]),
		})
	}
	s.set(ctx, key, skus)
	return skus, nil
}

// MetaMetrics returns the Meta Ads aggregate for the window.
func (s *OrdersService) MetaMetrics(ctx context.Context, tf Timeframe) (*ads.Metrics, error) {
	key := cache.Key("meta-ads", "metrics", tf.CacheKey())
	var cached ads.Metrics
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}
	metrics, err := s.fetchAds(ctx, s.meta, tf)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, metrics)
	return metrics, nil
}

// GoogleMetrics returns the Google Ads aggregate for the window.
func (s *OrdersService) GoogleMetrics(ctx context.Context, tf Timeframe) (*ads.Metrics, error) {
	key := cache.Key("google-ads", "metrics", tf.CacheKey())
	var cached ads.Metrics
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}
	metrics, err := s.fetchAds(ctx, s.google, tf)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, metrics)
	return metrics, nil
}

// fetchAds fetches metrics from one platform. An unconfigured platform
// yields zero metrics, not an error.
func (s *OrdersService) fetchAds(ctx context.Context, fetcher AdsFetcher, tf Timeframe) (*ads.Metrics, error) {
	if fetcher == nil {
		return &ads.Metrics{}, nil
	}
	// The fetchers take inclusive business-local dates.
	return fetcher.FetchMetrics(ctx, tf.Start.In(BusinessZone), tf.End.Add(-time.Second).In(BusinessZone))
}

// windowParams builds the shared query parameters for one window.
func windowParams(tf Timeframe, store string) []warehouse.Param {
	return []warehouse.Param{
		{Name: "store", Value: store},
		{Name: "start_date", Value: tf.Start},
		{Name: "end_date", Value: tf.End},
	}
}
