package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
)

// OrderFilter narrows an order listing. All filtering happens in
// process after a full scan.
type OrderFilter struct {
	Start           time.Time
	End             time.Time
	FinancialStatus string
	Page            int
	PageSize        int
}

// OrdersRepository persists orders keyed by their natural id.
type OrdersRepository struct {
	client API
	table  string
}

// NewOrdersRepository creates a repository over the given table.
func NewOrdersRepository(client API, table string) *OrdersRepository {
	return &OrdersRepository{client: client, table: table}
}

// Put stores an order, overwriting any existing record with the same id.
func (r *OrdersRepository) Put(ctx context.Context, order *commerce.Order) error {
	attrs, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("store: marshal order %q: %w", order.ID, err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      attrs,
	})
	if err != nil {
		return fmt.Errorf("store: put order %q: %w", order.ID, err)
	}
	return nil
}

// Get fetches an order by id, returning ErrNotFound when absent.
func (r *OrdersRepository) Get(ctx context.Context, id string) (*commerce.Order, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       naturalKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("store: get order %q: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var order commerce.Order
	if err := attributevalue.UnmarshalMap(out.Item, &order); err != nil {
		return nil, fmt.Errorf("store: unmarshal order %q: %w", id, err)
	}
	return &order, nil
}

// Delete removes an order by id. Deleting a missing order is not an
// error (deletes are idempotent).
func (r *OrdersRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       naturalKey(id),
	})
	if err != nil {
		return fmt.Errorf("store: delete order %q: %w", id, err)
	}
	return nil
}

// List scans the whole table and filters in process, returning the
// requested page (newest first) and the total match count.
func (r *OrdersRepository) List(ctx context.Context, filter OrderFilter) ([]commerce.Order, int, error) {
	all, err := scanAll[commerce.Order](ctx, r.client, r.table)
	if err != nil {
		return nil, 0, err
	}

	matched := all[:0:0]
	for _, order := range all {
		if filter.FinancialStatus != "" && order.FinancialStatus != filter.FinancialStatus {
			continue
		}
		if !filter.Start.IsZero() || !filter.End.IsZero() {
			created, ok := commerce.ParseTimestamp(order.CreatedAt)
			if !ok {
				continue
			}
			if !filter.Start.IsZero() && created.Before(filter.Start) {
				continue
			}
			if !filter.End.IsZero() && !created.Before(filter.End) {
				continue
			}
		}
		matched = append(matched, order)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt > matched[j].CreatedAt
	})

	total := len(matched)
	return paginate(matched, filter.Page, filter.PageSize), total, nil
}

// All returns every order in the table, for export.
func (r *OrdersRepository) All(ctx context.Context) ([]commerce.Order, error) {
	return scanAll[commerce.Order](ctx, r.client, r.table)
}

// naturalKey builds the partition key for the record tables.
func naturalKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: id},
	}
}

// scanAll pages through a full table scan and unmarshals every item.
func scanAll[T any](ctx context.Context, client API, table string) ([]T, error) {
	var (
		results []T
		start   map[string]types.AttributeValue
	)
	for {
		out, err := client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", table, err)
		}
		var page []T
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("store: unmarshal scan of %s: %w", table, err)
		}
		results = append(results, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return results, nil
		}
		start = out.LastEvaluatedKey
	}
}

// paginate returns one page of items; page and pageSize of 0 mean all.
func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
