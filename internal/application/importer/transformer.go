// Package importer runs CSV imports: parse rows, normalize them into
// domain records, deduplicate, and batch-write into the store with
// progress snapshots.
package importer

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/csvio"
)

// Resource names accepted by the import pipeline.
const (
	ResourceOrders    = "orders"
	ResourceProducts  = "products"
	ResourceCustomers = "customers"
)

// DefaultCurrency is applied when a row carries no currency column.
const DefaultCurrency = "INR"

// Transformer normalizes raw CSV rows into domain records. A row that
// cannot be normalized yields nil and is counted as an error by the
// caller; transformation never fails a whole file.
type Transformer struct {
	log *zap.Logger
}

// NewTransformer creates a transformer.
func NewTransformer(log *zap.Logger) *Transformer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Transformer{log: log}
}

// identifier resolves the first non-empty candidate column, stripping
// the leading quote some spreadsheet exports prefix to force text cells.
func identifier(row *csvio.Row, columns ...string) string {
	for _, col := range columns {
		v := strings.TrimSpace(strings.TrimPrefix(row.Get(col), "'"))
		if v != "" {
			return v
		}
	}
	return ""
}

// Order normalizes one order row. Files with one row per line item fold
// each row into a single-element line_items list; rows of the same
// order are not merged.
func (t *Transformer) Order(row *csvio.Row, now time.Time) *commerce.Order {
	id := identifier(row, "Order ID", "Id", "Name")
	if id == "" {
		t.log.Warn("dropping order row without identifier", zap.Int("line", row.Line))
		return nil
	}

	status := row.Get("Financial Status")
	if status == "" {
		status = "unknown"
	}
	currency := row.Get("Currency")
	if currency == "" {
		currency = DefaultCurrency
	}

	order := &commerce.Order{
		ID:                id,
		Name:              row.Get("Name"),
		FinancialStatus:   status,
		FulfillmentStatus: row.Get("Fulfillment Status"),
		CreatedAt:         row.Get("Created at"),
		UpdatedAt:         row.Get("Updated at"),
		Total:             commerce.NormalizeAmount(row.Get("Total")),
		Subtotal:          commerce.NormalizeAmount(row.Get("Subtotal")),
		Tax:               commerce.NormalizeAmount(row.Get("Taxes")),
		Currency:          currency,
		Customer: commerce.OrderCustomer{
			ID:    identifier(row, "Customer ID"),
			Name:  row.Get("Billing Name"),
			Email: row.Get("Email"),
		},
		Tags:     splitList(row.Get("Tags")),
		SyncedAt: now.UTC().Format(time.RFC3339),
	}

	if code := row.Get("Discount Code"); code != "" {
		order.DiscountCodes = []string{code}
	}

	if title := row.Get("Lineitem name"); title != "" {
		order.LineItems = []commerce.LineItem{{
			Title:    title,
			Quantity: parseQuantity(row.Get("Lineitem quantity")),
			Price:    commerce.NormalizeAmount(row.Get("Lineitem price")),
			SKU:      row.Get("Lineitem sku"),
		}}
	}

	return order
}

// Product normalizes one product row.
func (t *Transformer) Product(row *csvio.Row, now time.Time) *commerce.Product {
	id := identifier(row, "Id", "ID", "Handle")
	if id == "" {
		t.log.Warn("dropping product row without identifier", zap.Int("line", row.Line))
		return nil
	}

	product := &commerce.Product{
		ID:          id,
		Title:       row.Get("Title"),
		Handle:      row.Get("Handle"),
		Description: row.Get("Body (HTML)"),
		Type:        row.Get("Type"),
		Vendor:      row.Get("Vendor"),
		Tags:        splitList(row.Get("Tags")),
		UpdatedAt:   row.Get("Updated At"),
		SyncedAt:    now.UTC().Format(time.RFC3339),
	}

	if sku := row.Get("Variant SKU"); sku != "" || row.Get("Variant Price") != "" {
		product.Variants = []commerce.Variant{{
			Title:     row.Get("Option1 Value"),
			Price:     commerce.NormalizeAmount(row.Get("Variant Price")),
			SKU:       sku,
			Inventory: parseQuantity(row.Get("Variant Inventory Qty")),
		}}
	}
	if img := row.Get("Image Src"); img != "" {
		product.Images = []string{img}
	}

	return product
}

// Customer normalizes one customer row.
func (t *Transformer) Customer(row *csvio.Row, now time.Time) *commerce.Customer {
	id := identifier(row, "Customer ID", "Id", "Email")
	if id == "" {
		t.log.Warn("dropping customer row without identifier", zap.Int("line", row.Line))
		return nil
	}

	customer := &commerce.Customer{
		ID:          id,
		Email:       row.Get("Email"),
		FirstName:   row.Get("First Name"),
		LastName:    row.Get("Last Name"),
		OrdersCount: parseQuantity(row.Get("Total Orders")),
		TotalSpent:  commerce.NormalizeAmount(row.Get("Total Spent")),
		Tags:        splitList(row.Get("Tags")),
		UpdatedAt:   row.Get("Updated At"),
		SyncedAt:    now.UTC().Format(time.RFC3339),
	}

	if addr := row.Get("Default Address Address1"); addr != "" {
		customer.Addresses = []commerce.CustomerAddress{{
			Address: commerce.Address{
				Address1: addr,
				Address2: row.Get("Default Address Address2"),
				City:     row.Get("Default Address City"),
				Province: row.Get("Default Address Province Code"),
				Country:  row.Get("Default Address Country Code"),
				Zip:      row.Get("Default Address Zip"),
				Phone:    row.Get("Phone"),
			},
			Default: true,
		}}
	}

	return customer
}

func parseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
