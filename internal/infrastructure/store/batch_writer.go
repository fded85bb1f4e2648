package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
	"github.com/myfrido/analytics-backend/internal/infrastructure/retry"
)

// keyAttr is the partition key attribute of the record tables.
const keyAttr = "id"

// Stats accumulates write outcomes for an import run. Succeeded plus
// Failed always equals the number of items fed to the writer: every item
// is counted exactly once, as one or the other.
type Stats struct {
	Succeeded int
	Failed    int
}

// Add folds another Stats into this one.
func (s *Stats) Add(other Stats) {
	s.Succeeded += other.Succeeded
	s.Failed += other.Failed
}

// BatchWriter persists items into one table in store-imposed batch-size
// chunks, with bounded retries and capped exponential backoff. Batches
// are submitted strictly sequentially: import is a periodic offline job
// and serialized writes keep throttling behavior predictable.
type BatchWriter struct {
	client     API
	table      string
	batchSize  int
	maxRetries int
	policy     retry.Policy
	log        *zap.Logger

	// onBatch, when set, is invoked after each batch completes with the
	// 1-based batch index and the cumulative stats.
	onBatch func(batch int, total Stats)
}

// NewBatchWriter creates a writer for the given table.
func NewBatchWriter(client API, table string, cfg config.ImportConfig, log *zap.Logger) *BatchWriter {
	if log == nil {
		log = zap.NewNop()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > 25 {
		batchSize = 25
	}
	return &BatchWriter{
		client:     client,
		table:      table,
		batchSize:  batchSize,
		maxRetries: cfg.MaxRetries,
		policy: retry.Policy{
			BaseDelay: cfg.BaseDelay,
			MaxDelay:  cfg.MaxDelay,
		},
		log: log,
	}
}

// OnBatch registers a per-batch progress callback.
func (w *BatchWriter) OnBatch(fn func(batch int, total Stats)) {
	w.onBatch = fn
}

// Write persists all items and returns the final accounting. Individual
// batch failures never abort the run: items that exhaust their retries
// are counted as permanent errors and the writer moves on.
func (w *BatchWriter) Write(ctx context.Context, items []Item) Stats {
	var total Stats
	batch := 0
	for start := 0; start < len(items); start += w.batchSize {
		end := start + w.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch++
		total.Add(w.writeBatch(ctx, items[start:end]))
		if w.onBatch != nil {
			w.onBatch(batch, total)
		}
	}
	return total
}

// writeBatch drives one batch through the submit/retry state machine.
// dups tracks records dropped by write-side deduplication, attributed to
// the surviving item's key so the final accounting still covers them.
func (w *BatchWriter) writeBatch(ctx context.Context, batch []Item) Stats {
	var stats Stats
	dups := make(map[string]int)
	pending := batch
	retries := 0

	for len(pending) > 0 {
		out, err := w.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				w.table: putRequests(pending),
			},
		})

		if err == nil {
			unprocessed := out.UnprocessedItems[w.table]
			if len(unprocessed) == 0 {
				w.countSucceeded(&stats, pending, dups)
				return stats
			}

			// The store accepted a subset; resubmit exactly the rest.
			remainingKeys := unprocessedKeys(unprocessed)
			accepted := pending[:0:0]
			remaining := pending[:0:0]
			for _, item := range pending {
				if remainingKeys[item.Key] {
					remaining = append(remaining, item)
				} else {
					accepted = append(accepted, item)
				}
			}
			w.countSucceeded(&stats, accepted, dups)
			pending = remaining

			retries++
			if retries > w.maxRetries {
				w.log.Warn("batch items unprocessed after retry cap, recording as permanent errors",
					zap.String("table", w.table), zap.Int("items", len(pending)))
				w.countFailed(&stats, pending, dups)
				return stats
			}
			if serr := w.policy.Sleep(ctx, retries-1); serr != nil {
				w.countFailed(&stats, pending, dups)
				return stats
			}
			continue
		}

		switch classify(err) {
		case classDuplicate:
			deduped, dropped := dedupeItems(pending)
			if len(deduped) < len(pending) {
				// Local dedup made progress; resubmit without consuming
				// a retry attempt.
				for key, n := range dropped {
					dups[key] += n
				}
				w.log.Debug("deduplicated batch after duplicate-key rejection",
					zap.String("table", w.table), zap.Int("before", len(pending)), zap.Int("after", len(deduped)))
				pending = deduped
				continue
			}
			// No progress possible in batch form; fall back to
			// one-at-a-time writes with independent accounting.
			w.writeOneAtATime(ctx, pending, &stats, dups)
			return stats

		default: // classThrottled, classOther
			retries++
			if retries > w.maxRetries {
				w.log.Error("batch write failed after retry cap",
					zap.String("table", w.table), zap.Int("items", len(pending)), zap.Error(err))
				w.countFailed(&stats, pending, dups)
				return stats
			}
			w.log.Warn("batch write failed, backing off",
				zap.String("table", w.table), zap.Int("retry", retries), zap.Error(err))
			if serr := w.policy.Sleep(ctx, retries-1); serr != nil {
				w.countFailed(&stats, pending, dups)
				return stats
			}
		}
	}
	return stats
}

// writeOneAtATime submits items individually, counting each outcome
// independently.
func (w *BatchWriter) writeOneAtATime(ctx context.Context, items []Item, stats *Stats, dups map[string]int) {
	for _, item := range items {
		_, err := w.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(w.table),
			Item:      item.attrs,
		})
		if err != nil {
			w.log.Warn("single-item write failed", zap.String("key", item.Key), zap.Error(err))
			w.countFailed(stats, []Item{item}, dups)
			continue
		}
		w.countSucceeded(stats, []Item{item}, dups)
	}
}

// countSucceeded records items (plus any duplicates folded into them) as
// succeeded. countFailed mirrors it for errors. Each duplicate group is
// consumed once so no record is double-counted.
func (w *BatchWriter) countSucceeded(stats *Stats, items []Item, dups map[string]int) {
	for _, item := range items {
		stats.Succeeded += 1 + dups[item.Key]
		delete(dups, item.Key)
	}
}

func (w *BatchWriter) countFailed(stats *Stats, items []Item, dups map[string]int) {
	for _, item := range items {
		stats.Failed += 1 + dups[item.Key]
		delete(dups, item.Key)
	}
}

// putRequests converts items to DynamoDB write requests.
func putRequests(items []Item) []types.WriteRequest {
	reqs := make([]types.WriteRequest, len(items))
	for i, item := range items {
		reqs[i] = types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item.attrs},
		}
	}
	return reqs
}

// unprocessedKeys extracts the natural keys the store did not accept.
func unprocessedKeys(reqs []types.WriteRequest) map[string]bool {
	keys := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		if req.PutRequest == nil {
			continue
		}
		if attr, ok := req.PutRequest.Item[keyAttr].(*types.AttributeValueMemberS); ok {
			keys[attr.Value] = true
		}
	}
	return keys
}

// dedupeItems reduces a batch to one item per key, keeping the item with
// the strictly greatest recency timestamp (first-seen wins ties, same
// rule as the domain-level dedup). The second return value counts the
// dropped duplicates per surviving key.
func dedupeItems(items []Item) ([]Item, map[string]int) {
	kept := make(map[string]Item, len(items))
	order := make([]string, 0, len(items))
	dropped := make(map[string]int)

	for _, item := range items {
		prev, seen := kept[item.Key]
		if !seen {
			kept[item.Key] = item
			order = append(order, item.Key)
			continue
		}
		dropped[item.Key]++
		if item.Modified.After(prev.Modified) {
			kept[item.Key] = item
		}
	}

	out := make([]Item, 0, len(order))
	for _, key := range order {
		out = append(out, kept[key])
	}
	return out, dropped
}
