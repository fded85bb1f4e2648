// Package exporter writes store records back out as CSV files, with
// optional upload to S3.
package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/csvio"
)

// OrdersSource reads every order. Satisfied by store.OrdersRepository.
type OrdersSource interface {
	All(ctx context.Context) ([]commerce.Order, error)
}

// ProductsSource reads every product.
type ProductsSource interface {
	All(ctx context.Context) ([]commerce.Product, error)
}

// CustomersSource reads every customer.
type CustomersSource interface {
	All(ctx context.Context) ([]commerce.Customer, error)
}

// Uploader pushes a finished export file to remote storage. A nil
// Uploader leaves the file local only.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Result describes one finished export.
type Result struct {
	Path      string `json:"path"`
	Rows      int    `json:"rows"`
	RemoteKey string `json:"remoteKey,omitempty"`
}

// Exporter writes dated CSV exports into a directory.
type Exporter struct {
	dir      string
	uploader Uploader
	log      *zap.Logger
	now      func() time.Time
}

// New creates an exporter writing into dir.
func New(dir string, uploader Uploader, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	if dir == "" {
		dir = "."
	}
	return &Exporter{dir: dir, uploader: uploader, log: log, now: time.Now}
}

var orderHeaders = []string{
	"Order ID", "Name", "Financial Status", "Fulfillment Status",
	"Created at", "Updated at", "Total", "Subtotal", "Taxes", "Currency",
	"Customer ID", "Email", "Billing Name", "Tags", "Discount Code",
	"Lineitem name", "Lineitem quantity", "Lineitem price", "Lineitem sku",
}

// ExportOrders writes orders one row per line item, mirroring the
// import format. Orders without line items produce one row with empty
// line-item columns.
func (e *Exporter) ExportOrders(ctx context.Context, source OrdersSource) (*Result, error) {
	orders, err := source.All(ctx)
	if err != nil {
		return nil, err
	}

	return e.writeFile(ctx, "orders", orderHeaders, func(w *csvio.Writer) error {
		for _, order := range orders {
			base := map[string]string{
				"Order ID":           order.ID,
				"Name":               order.Name,
				"Financial Status":   order.FinancialStatus,
				"Fulfillment Status": order.FulfillmentStatus,
				"Created at":         order.CreatedAt,
				"Updated at":         order.UpdatedAt,
				"Total":              order.Total,
				"Subtotal":           order.Subtotal,
				"Taxes":              order.Tax,
				"Currency":           order.Currency,
				"Customer ID":        order.Customer.ID,
				"Email":              order.Customer.Email,
				"Billing Name":       order.Customer.Name,
				"Tags":               strings.Join(order.Tags, ", "),
			}
			if len(order.DiscountCodes) > 0 {
				base["Discount Code"] = order.DiscountCodes[0]
			}
			if len(order.LineItems) == 0 {
				if err := w.Write(base); err != nil {
					return err
				}
				continue
			}
			for _, li := range order.LineItems {
				row := make(map[string]string, len(base)+4)
				for k, v := range base {
					row[k] = v
				}
				row["Lineitem name"] = li.Title
				row["Lineitem quantity"] = strconv.Itoa(li.Quantity)
				row["Lineitem price"] = li.Price
				row["Lineitem sku"] = li.SKU
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

var productHeaders = []string{
	"Id", "Title", "Handle", "Type", "Vendor", "Tags", "Updated At",
	"Variant SKU", "Variant Price", "Variant Inventory Qty",
}

// ExportProducts writes products one row per variant.
func (e *Exporter) ExportProducts(ctx context.Context, source ProductsSource) (*Result, error) {
	products, err := source.All(ctx)
	if err != nil {
		return nil, err
	}

	return e.writeFile(ctx, "products", productHeaders, func(w *csvio.Writer) error {
		for _, product := range products {
			base := map[string]string{
				"Id":         product.ID,
				"Title":      product.Title,
				"Handle":     product.Handle,
				"Type":       product.Type,
				"Vendor":     product.Vendor,
				"Tags":       strings.Join(product.Tags, ", "),
				"Updated At": product.UpdatedAt,
			}
			if len(product.Variants) == 0 {
				if err := w.Write(base); err != nil {
					return err
				}
				continue
			}
			for _, v := range product.Variants {
				row := make(map[string]string, len(base)+3)
				for k, val := range base {
					row[k] = val
				}
				row["Variant SKU"] = v.SKU
				row["Variant Price"] = v.Price
				row["Variant Inventory Qty"] = strconv.Itoa(v.Inventory)
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

var customerHeaders = []string{
	"Customer ID", "Email", "First Name", "Last Name",
	"Total Orders", "Total Spent", "Tags", "Updated At",
}

// ExportCustomers writes one row per customer.
func (e *Exporter) ExportCustomers(ctx context.Context, source CustomersSource) (*Result, error) {
	customers, err := source.All(ctx)
	if err != nil {
		return nil, err
	}

	return e.writeFile(ctx, "customers", customerHeaders, func(w *csvio.Writer) error {
		for _, c := range customers {
			if err := w.Write(map[string]string{
				"Customer ID":  c.ID,
				"Email":        c.Email,
				"First Name":   c.FirstName,
				"Last Name":    c.LastName,
				"Total Orders": strconv.Itoa(c.OrdersCount),
				"Total Spent":  c.TotalSpent,
				"Tags":         strings.Join(c.Tags, ", "),
				"Updated At":   c.UpdatedAt,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFile creates the dated file, streams rows, and uploads when an
// uploader is configured. Upload failures leave the local file in place
// and surface as errors.
func (e *Exporter) writeFile(ctx context.Context, resource string, headers []string, fill func(*csvio.Writer) error) (*Result, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("exporter: create dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.csv", resource, e.now().UTC().Format("20060102_150405"))
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("exporter: create file: %w", err)
	}
	defer f.Close()

	w, err := csvio.NewWriter(f, headers)
	if err != nil {
		return nil, err
	}
	if err := fill(w); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("exporter: close file: %w", err)
	}

	result := &Result{Path: path, Rows: w.Rows()}
	if e.uploader != nil {
		key, err := e.uploader.Upload(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("exporter: upload %s: %w", path, err)
		}
		result.RemoteKey = key
	}
	e.log.Info("export written", zap.String("path", path), zap.Int("rows", result.Rows))
	return result, nil
}
