package warehouse

import "fmt"

// The report SQL is parameterized on @start_date / @end_date (business
// local day bounds, see report.Timeframe) and @store. Table names are
// interpolated because BigQuery does not allow parameterized
// identifiers; they always come from configuration, never from request
// input.

// SalesOverviewSQL aggregates order totals for one store and window.
func SalesOverviewSQL(ordersTable string) string {
	return fmt.Sprintf(`
SELECT
  COUNT(DISTINCT order_id)                    AS total_orders,
  IFNULL(SUM(total_price), 0)                 AS total_sales,
  IFNULL(SUM(subtotal_price), 0)              AS gross_sales,
  IFNULL(SUM(total_tax), 0)                   AS total_tax,
  IFNULL(SUM(total_discounts), 0)             AS total_discounts,
  IFNULL(SUM(total_shipping), 0)              AS total_shipping
FROM %s
WHERE store = @store
  AND created_at >= @start_date
  AND created_at < @end_date
  AND financial_status IN ('paid', 'partially_refunded')`, ordersTable)
}

// CostBreakdownSQL joins sold line items against the per-SKU cost table
// and returns summed COGS and shipping-and-distribution cost.
func CostBreakdownSQL(lineItemsTable, skuCostsTable string) string {
	return fmt.Sprintf(`
SELECT
  IFNULL(SUM(li.quantity * c.cogs), 0) AS total_cogs,
  IFNULL(SUM(li.quantity * c.sd), 0)   AS total_sd
FROM %s AS li
JOIN %s AS c
  ON li.sku = c.sku
WHERE li.store = @store
  AND li.created_at >= @start_date
  AND li.created_at < @end_date`, lineItemsTable, skuCostsTable)
}

// ReturnsSQL aggregates refunded orders for the window.
func ReturnsSQL(ordersTable string) string {
	return fmt.Sprintf(`
SELECT
  COUNT(DISTINCT order_id)            AS return_orders,
  IFNULL(SUM(refunded_amount), 0)     AS return_amount
FROM %s
WHERE store = @store
  AND created_at >= @start_date
  AND created_at < @end_date
  AND financial_status IN ('refunded', 'partially_refunded')`, ordersTable)
}

// AmazonSalesSQL aggregates marketplace sales from the Amazon feed.
func AmazonSalesSQL(amazonSalesTable string) string {
	return fmt.Sprintf(`
SELECT
  COUNT(DISTINCT amazon_order_id)     AS total_orders,
  IFNULL(SUM(item_price), 0)          AS total_sales,
  IFNULL(SUM(quantity), 0)            AS total_units
FROM %s
WHERE purchase_date >= @start_date
  AND purchase_date < @end_date
  AND order_status != 'Cancelled'`, amazonSalesTable)
}

// AmazonReturnsSQL aggregates marketplace returns from the returns feed.
func AmazonReturnsSQL(amazonReturnsTable string) string {
	return fmt.Sprintf(`
SELECT
  COUNT(*)                            AS return_units,
  IFNULL(SUM(refund_amount), 0)       AS return_amount
FROM %s
WHERE return_date >= @start_date
  AND return_date < @end_date`, amazonReturnsTable)
}

// TopSKUsSQL lists the best-selling SKUs for the window.
func TopSKUsSQL(lineItemsTable string) string {
	return fmt.Sprintf(`
SELECT
  li.sku                              AS sku,
  ANY_VALUE(li.title)                 AS title,
  SUM(li.quantity)                    AS units_sold,
  IFNULL(SUM(li.quantity * li.price), 0) AS revenue
FROM %s AS li
WHERE li.store = @store
  AND li.created_at >= @start_date
  AND li.created_at < @end_date
GROUP BY li.sku
ORDER BY units_sold DESC
LIMIT @limit`, lineItemsTable)
}
