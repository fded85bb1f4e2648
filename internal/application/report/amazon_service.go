package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/infrastructure/cache"
	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
	"github.com/myfrido/analytics-backend/internal/infrastructure/warehouse"
)

// AmazonOverview is the marketplace sales picture for one window.
type AmazonOverview struct {
	TotalOrders  int64   `json:"totalOrders"`
	TotalSales   float64 `json:"totalSales"`
	TotalUnits   int64   `json:"totalUnits"`
	AOV          float64 `json:"aov"`
	ReturnUnits  int64   `json:"returnUnits"`
	ReturnAmount float64 `json:"returnAmount"`
	ReturnRate   float64 `json:"returnRate"`
	NetRevenue   float64 `json:"netRevenue"`
}

// AmazonService builds the Amazon marketplace reports from the
// warehouse feeds.
type AmazonService struct {
	cacheAside
	warehouse    warehouse.Runner
	salesTable   string
	returnsTable string
}

// NewAmazonService creates the service.
func NewAmazonService(wh warehouse.Runner, cfg config.AmazonConfig, c *cache.Store, ttl time.Duration, log *zap.Logger) *AmazonService {
	return &AmazonService{
		cacheAside:   newCacheAside(c, ttl, log),
		warehouse:    wh,
		salesTable:   cfg.SalesTable,
		returnsTable: cfg.ReturnsTable,
	}
}

// Overview aggregates marketplace sales and returns for the window.
func (s *AmazonService) Overview(ctx context.Context, tf Timeframe) (*AmazonOverview, error) {
	key := cache.Key("amazon", "overview", tf.CacheKey())
	var cached AmazonOverview
	if s.get(ctx, key, &cached) {
		return &cached, nil
	}

	params := []warehouse.Param{
		{Name: "start_date", Value: tf.Start},
		{Name: "end_date", Value: tf.End},
	}

	salesRows, err := s.warehouse.Query(ctx, warehouse.AmazonSalesSQL(s.warehouse.Table(s.salesTable)), params...)
	if err != nil {
		return nil, err
	}
	returnRows, err := s.warehouse.Query(ctx, warehouse.AmazonReturnsSQL(s.warehouse.Table(s.returnsTable)), params...)
	if err != nil {
		return nil, err
	}

	sales := first(salesRows)
	returns := first(returnRows)
	overview := &AmazonOverview{
		TotalOrders:  warehouse.Int(sales["total_orders"]),
		TotalSales:   warehouse.Float(sales["total_sales"]),
		TotalUnits:   warehouse.Int(sales["total_units"]),
		ReturnUnits:  warehouse.Int(returns["return_units"]),
		ReturnAmount: warehouse.Float(returns["return_amount"]),
	}
	overview.AOV = safeDiv(overview.TotalSales, float64(overview.TotalOrders))
	overview.ReturnRate = safeDiv(float64(overview.ReturnUnits), float64(overview.TotalUnits)) * 100
	overview.NetRevenue = overview.TotalSales - overview.ReturnAmount

	s.set(ctx, key, overview)
	return overview, nil
}
