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

// CustomersRepository persists customers keyed by their natural id.
type CustomersRepository struct {
	client API
	table  string
}

// NewCustomersRepository creates a repository over the given table.
func NewCustomersRepository(client API, table string) *CustomersRepository {
	return &CustomersRepository{client: client, table: table}
}

// Put stores a customer, overwriting any existing record with the same id.
func (r *CustomersRepository) Put(ctx context.Context, customer *commerce.Customer) error {
	attrs, err := attributevalue.MarshalMap(customer)
	if err != nil {
		return fmt.Errorf("store: marshal customer %q: %w", customer.ID, err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      attrs,
	})
	if err != nil {
		return fmt.Errorf("store: put customer %q: %w", customer.ID, err)
	}
	return nil
}

// Get fetches a customer by id, returning ErrNotFound when absent.
func (r *CustomersRepository) Get(ctx context.Context, id string) (*commerce.Customer, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       naturalKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("store: get customer %q: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var customer commerce.Customer
	if err := attributevalue.UnmarshalMap(out.Item, &customer); err != nil {
		return nil, fmt.Errorf("store: unmarshal customer %q: %w", id, err)
	}
	return &customer, nil
}

// List returns one page of customers sorted by total spent descending,
// plus the total match count.
func (r *CustomersRepository) List(ctx context.Context, page, pageSize int) ([]commerce.Customer, int, error) {
	all, err := scanAll[commerce.Customer](ctx, r.client, r.table)
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		return commerce.ParseAmount(all[i].TotalSpent).GreaterThan(commerce.ParseAmount(all[j].TotalSpent))
	})
	return paginate(all, page, pageSize), len(all), nil
}

// All returns every customer in the table, for export.
func (r *CustomersRepository) All(ctx context.Context) ([]commerce.Customer, error) {
	return scanAll[commerce.Customer](ctx, r.client, r.table)
}
