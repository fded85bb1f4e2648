package report

import (
	"github.com/myfrido/analytics-backend/internal/infrastructure/ads"
	"github.com/myfrido/analytics-backend/internal/infrastructure/warehouse"
)

// Overview is the blended sales/cost/marketing picture for one window.
// Every ratio uses a divide-by-zero guard: a zero denominator reports
// the metric as 0.
type Overview struct {
	TotalOrders    int64   `json:"totalOrders"`
	TotalSales     float64 `json:"totalSales"`
	GrossSales     float64 `json:"grossSales"`
	TotalTax       float64 `json:"totalTax"`
	TotalDiscounts float64 `json:"totalDiscounts"`
	TotalShipping  float64 `json:"totalShipping"`
	NetRevenue     float64 `json:"netRevenue"`
	AOV            float64 `json:"aov"`

	COGS           float64 `json:"cogs"`
	COGSPercentage float64 `json:"cogsPercentage"`
	SD             float64 `json:"sd"`

	MetaSpend      float64 `json:"metaSpend"`
	GoogleSpend    float64 `json:"googleSpend"`
	MarketingSpend float64 `json:"marketingSpend"`
	ROAS           float64 `json:"roas"`
	MER            float64 `json:"mer"`

	CM2 float64 `json:"cm2"`
	CM3 float64 `json:"cm3"`

	ReturnOrders int64   `json:"returnOrders"`
	ReturnAmount float64 `json:"returnAmount"`
	ReturnRate   float64 `json:"returnRate"`
}

// BuildOverview folds warehouse rows and ad metrics into the derived
// overview. Any of the inputs may be nil/empty; missing sources simply
// contribute zeros.
func BuildOverview(sales, costs, returns warehouse.Row, meta, google *ads.Metrics) *Overview {
	o := &Overview{
		TotalOrders:    warehouse.Int(sales["total_orders"]),
		TotalSales:     warehouse.Float(sales["total_sales"]),
		GrossSales:     warehouse.Float(sales["gross_sales"]),
		TotalTax:       warehouse.Float(sales["total_tax"]),
		TotalDiscounts: warehouse.Float(sales["total_discounts"]),
		TotalShipping:  warehouse.Float(sales["total_shipping"]),
		COGS:           warehouse.Float(costs["total_cogs"]),
		SD:             warehouse.Float(costs["total_sd"]),
		ReturnOrders:   warehouse.Int(returns["return_orders"]),
		ReturnAmount:   warehouse.Float(returns["return_amount"]),
	}
	if meta != nil {
		o.MetaSpend = meta.Spend
	}
	if google != nil {
		o.GoogleSpend = google.Spend
	}
	o.MarketingSpend = o.MetaSpend + o.GoogleSpend

	o.NetRevenue = o.TotalSales - o.ReturnAmount
	o.AOV = safeDiv(o.TotalSales, float64(o.TotalOrders))
	o.COGSPercentage = safeDiv(o.COGS, o.TotalSales) * 100
	o.ROAS = safeDiv(o.TotalSales, o.MarketingSpend)
	o.MER = safeDiv(o.MarketingSpend, o.TotalSales) * 100
	o.CM2 = o.TotalSales - o.COGS - o.MarketingSpend
	o.CM3 = o.CM2 - o.SD
	o.ReturnRate = safeDiv(float64(o.ReturnOrders), float64(o.TotalOrders)) * 100
	return o
}

// safeDiv divides with a zero-denominator guard.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// first returns the only row of a result set, or an empty row. The
// report aggregates always produce exactly one row.
func first(rows []warehouse.Row) warehouse.Row {
	if len(rows) == 0 {
		return warehouse.Row{}
	}
	return rows[0]
}
