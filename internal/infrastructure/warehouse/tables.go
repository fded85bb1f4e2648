package warehouse

// Warehouse table names within the configured dataset.
const (
	TableOrders    = "shopify_orders"
	TableLineItems = "shopify_line_items"
	TableSKUCosts  = "sku_costs"
)
