package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
)

// ProductsRepository persists catalog products keyed by their natural id.
type ProductsRepository struct {
	client API
	table  string
}

// NewProductsRepository creates a repository over the given table.
func NewProductsRepository(client API, table string) *ProductsRepository {
	return &ProductsRepository{client: client, table: table}
}

// Put stores a product, overwriting any existing record with the same id.
func (r *ProductsRepository) Put(ctx context.Context, product *commerce.Product) error {
	attrs, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("store: marshal product %q: %w", product.ID, err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      attrs,
	})
	if err != nil {
		return fmt.Errorf("store: put product %q: %w", product.ID, err)
	}
	return nil
}

// Get fetches a product by id, returning ErrNotFound when absent.
func (r *ProductsRepository) Get(ctx context.Context, id string) (*commerce.Product, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       naturalKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("store: get product %q: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var product commerce.Product
	if err := attributevalue.UnmarshalMap(out.Item, &product); err != nil {
		return nil, fmt.Errorf("store: unmarshal product %q: %w", id, err)
	}
	return &product, nil
}

// List returns one page of products sorted by title, plus the total.
func (r *ProductsRepository) List(ctx context.Context, page, pageSize int) ([]commerce.Product, int, error) {
	all, err := scanAll[commerce.Product](ctx, r.client, r.table)
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	return paginate(all, page, pageSize), len(all), nil
}

// LowStock returns products having at least one variant with inventory
// at or below the threshold.
func (r *ProductsRepository) LowStock(ctx context.Context, threshold int) ([]commerce.Product, error) {
	all, err := scanAll[commerce.Product](ctx, r.client, r.table)
	if err != nil {
		return nil, err
	}
	low := all[:0:0]
	for _, product := range all {
		for _, variant := range product.Variants {
			if variant.Inventory <= threshold {
				low = append(low, product)
				break
			}
		}
	}
	return low, nil
}

// All returns every product in the table, for export.
func (r *ProductsRepository) All(ctx context.Context) ([]commerce.Product, error) {
	return scanAll[commerce.Product](ctx, r.client, r.table)
}
