package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
)

type fakeCatalog struct {
	products []commerce.Product
}

func (f *fakeCatalog) Get(_ context.Context, id string) (*commerce.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCatalog) List(_ context.Context, page, pageSize int) ([]commerce.Product, int, error) {
	return f.products, len(f.products), nil
}

func (f *fakeCatalog) LowStock(_ context.Context, threshold int) ([]commerce.Product, error) {
	var low []commerce.Product
	for _, p := range f.products {
		for _, v := range p.Variants {
			if v.Inventory <= threshold {
				low = append(low, p)
				break
			}
		}
	}
	return low, nil
}

func TestProductsLowStockUsesThreshold(t *testing.T) {
	catalog := &fakeCatalog{products: []commerce.Product{
		{ID: "1", Variants: []commerce.Variant{{SKU: "A", Inventory: 3}}},
		{ID: "2", Variants: []commerce.Variant{{SKU: "B", Inventory: 50}}},
		{ID: "3", Variants: []commerce.Variant{{SKU: "C", Inventory: 10}}},
	}}
	svc := NewProductsService(catalog, 10, nil, 0, nil)

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "1", low[0].ID)
	assert.Equal(t, "3", low[1].ID)
}

func TestProductsLowStockServesWarmSnapshot(t *testing.T) {
	catalog := &fakeCatalog{products: []commerce.Product{
		{ID: "1", Variants: []commerce.Variant{{SKU: "A", Inventory: 3}}},
	}}
	svc := NewProductsService(catalog, 10, nil, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.WarmLowStock(ctx, time.Hour)

	// The warm copy is taken at start; later catalog changes are not
	// visible until the next refresh.
	catalog.products = nil
	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "1", low[0].ID)
}

func TestProductsListClampsPaging(t *testing.T) {
	svc := NewProductsService(&fakeCatalog{}, 10, nil, 0, nil)

	page, err := svc.List(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
}
