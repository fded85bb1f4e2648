package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
)

// batchStep scripts one BatchWriteItem response.
type batchStep struct {
	err         error
	unprocessed []string // keys echoed back as unprocessed
}

// fakeDynamo replays scripted batch responses and records every call.
type fakeDynamo struct {
	steps      []batchStep
	batchCalls [][]string // keys submitted per BatchWriteItem call
	putCalls   []string   // keys submitted per PutItem call
	putErrs    map[string]error
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	var keys []string
	var table string
	for name, reqs := range in.RequestItems {
		table = name
		for _, req := range reqs {
			if attr, ok := req.PutRequest.Item[keyAttr].(*types.AttributeValueMemberS); ok {
				keys = append(keys, attr.Value)
			}
		}
	}
	f.batchCalls = append(f.batchCalls, keys)

	if len(f.steps) == 0 {
		return &dynamodb.BatchWriteItemOutput{}, nil
	}
	step := f.steps[0]
	f.steps = f.steps[1:]
	if step.err != nil {
		return nil, step.err
	}
	if len(step.unprocessed) == 0 {
		return &dynamodb.BatchWriteItemOutput{}, nil
	}
	reqs := make([]types.WriteRequest, 0, len(step.unprocessed))
	for _, key := range step.unprocessed {
		reqs = append(reqs, types.WriteRequest{
			PutRequest: &types.PutRequest{
				Item: map[string]types.AttributeValue{
					keyAttr: &types.AttributeValueMemberS{Value: key},
				},
			},
		})
	}
	return &dynamodb.BatchWriteItemOutput{
		UnprocessedItems: map[string][]types.WriteRequest{table: reqs},
	}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	key := ""
	if attr, ok := in.Item[keyAttr].(*types.AttributeValueMemberS); ok {
		key = attr.Value
	}
	f.putCalls = append(f.putCalls, key)
	if err, ok := f.putErrs[key]; ok {
		return nil, err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{}, nil
}

// duplicateKeyErr mimics the validation error the store returns when a
// batch contains two writes for the same key.
type duplicateKeyErr struct{}

func (duplicateKeyErr) Error() string     { return "ValidationException: duplicate item keys" }
func (duplicateKeyErr) ErrorCode() string { return "ValidationException" }
func (duplicateKeyErr) ErrorMessage() string {
	return "Provided list of item keys contains duplicates"
}
func (duplicateKeyErr) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var _ smithy.APIError = duplicateKeyErr{}

func testWriterConfig(batchSize, maxRetries int) config.ImportConfig {
	return config.ImportConfig{
		BatchSize:  batchSize,
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func orderItems(t *testing.T, n int) []Item {
	t.Helper()
	orders := make([]*commerce.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, &commerce.Order{
			ID:        fmt.Sprintf("order-%03d", i),
			CreatedAt: "2025-04-01T10:00:00Z",
		})
	}
	items, err := NewItems(orders)
	require.NoError(t, err)
	return items
}

func TestBatchWriterChunksSequentially(t *testing.T) {
	fake := &fakeDynamo{}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 5), nil)

	stats := w.Write(context.Background(), orderItems(t, 60))

	assert.Equal(t, 60, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
	require.Len(t, fake.batchCalls, 3)
	assert.Len(t, fake.batchCalls[0], 25)
	assert.Len(t, fake.batchCalls[1], 25)
	assert.Len(t, fake.batchCalls[2], 10)
}

func TestBatchWriterRetriesThrottlingThenSucceeds(t *testing.T) {
	fake := &fakeDynamo{steps: []batchStep{
		{err: &types.ProvisionedThroughputExceededException{}},
		{}, // clean on the second attempt
	}}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 5), nil)

	stats := w.Write(context.Background(), orderItems(t, 10))

	assert.Equal(t, 10, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
	assert.Len(t, fake.batchCalls, 2)
}

func TestBatchWriterResubmitsOnlyUnprocessedItems(t *testing.T) {
	fake := &fakeDynamo{steps: []batchStep{
		{unprocessed: []string{"order-003", "order-007"}},
		{},
	}}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 5), nil)

	stats := w.Write(context.Background(), orderItems(t, 10))

	assert.Equal(t, 10, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
	require.Len(t, fake.batchCalls, 2)
	assert.ElementsMatch(t, []string{"order-003", "order-007"}, fake.batchCalls[1])
}

func TestBatchWriterCountsFailuresAfterRetryCap(t *testing.T) {
	throttle := &types.ProvisionedThroughputExceededException{}
	fake := &fakeDynamo{steps: []batchStep{
		{err: throttle}, {err: throttle}, {err: throttle},
	}}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 2), nil)

	stats := w.Write(context.Background(), orderItems(t, 10))

	assert.Equal(t, 0, stats.Succeeded)
	assert.Equal(t, 10, stats.Failed)
	// initial attempt plus two retries
	assert.Len(t, fake.batchCalls, 3)
}

func TestBatchWriterUnprocessedRetryCap(t *testing.T) {
	fake := &fakeDynamo{steps: []batchStep{
		{unprocessed: []string{"order-000"}},
		{unprocessed: []string{"order-000"}},
		{unprocessed: []string{"order-000"}},
	}}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 2), nil)

	stats := w.Write(context.Background(), orderItems(t, 5))

	assert.Equal(t, 4, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 5, stats.Succeeded+stats.Failed)
}

func TestBatchWriterDeduplicatesOnDuplicateKeyRejection(t *testing.T) {
	older := &commerce.Order{ID: "order-dup", UpdatedAt: "2025-04-01T10:00:00Z"}
	newer := &commerce.Order{ID: "order-dup", UpdatedAt: "2025-04-02T10:00:00Z"}
	other := &commerce.Order{ID: "order-other", CreatedAt: "2025-04-01T10:00:00Z"}
	items, err := NewItems([]*commerce.Order{older, newer, other})
	require.NoError(t, err)

	fake := &fakeDynamo{steps: []batchStep{
		{err: duplicateKeyErr{}},
		{},
	}}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 5), nil)

	stats := w.Write(context.Background(), items)

	// The dropped duplicate is folded into the surviving key's count.
	assert.Equal(t, 3, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)
	require.Len(t, fake.batchCalls, 2)
	assert.ElementsMatch(t, []string{"order-dup", "order-other"}, fake.batchCalls[1])
}

func TestBatchWriterFallsBackToSingleWrites(t *testing.T) {
	// Distinct keys, so the duplicate rejection cannot be resolved by
	// local dedup and the writer goes one at a time.
	items := orderItems(t, 3)
	fake := &fakeDynamo{
		steps:   []batchStep{{err: duplicateKeyErr{}}},
		putErrs: map[string]error{"order-001": errors.New("boom")},
	}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 5), nil)

	stats := w.Write(context.Background(), items)

	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, []string{"order-000", "order-001", "order-002"}, fake.putCalls)
}

func TestBatchWriterAccountingInvariant(t *testing.T) {
	throttle := &types.ProvisionedThroughputExceededException{}
	fake := &fakeDynamo{steps: []batchStep{
		{},              // batch 1 clean
		{err: throttle}, // batch 2 throttled then exhausted
		{err: throttle},
		{err: throttle},
		{unprocessed: []string{"order-055"}}, // batch 3 partial then clean
		{},
	}}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 2), nil)

	items := orderItems(t, 60)
	stats := w.Write(context.Background(), items)

	assert.Equal(t, len(items), stats.Succeeded+stats.Failed)
	assert.Equal(t, 35, stats.Succeeded)
	assert.Equal(t, 25, stats.Failed)
}

func TestBatchWriterProgressCallback(t *testing.T) {
	fake := &fakeDynamo{}
	w := NewBatchWriter(fake, "orders", testWriterConfig(25, 5), nil)

	var batches []int
	var last Stats
	w.OnBatch(func(batch int, total Stats) {
		batches = append(batches, batch)
		last = total
	})

	w.Write(context.Background(), orderItems(t, 30))

	assert.Equal(t, []int{1, 2}, batches)
	assert.Equal(t, 30, last.Succeeded)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errorClass
	}{
		{"throughput exceeded", &types.ProvisionedThroughputExceededException{}, classThrottled},
		{"request limit", &types.RequestLimitExceeded{}, classThrottled},
		{"duplicate validation", duplicateKeyErr{}, classDuplicate},
		{"plain error", errors.New("network down"), classOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}
