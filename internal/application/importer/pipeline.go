package importer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
	"github.com/myfrido/analytics-backend/internal/infrastructure/csvio"
	"github.com/myfrido/analytics-backend/internal/infrastructure/store"
)

// RecordWriter is the batch-writing surface the pipeline needs.
// Satisfied by store.BatchWriter.
type RecordWriter interface {
	Write(ctx context.Context, items []store.Item) store.Stats
	OnBatch(fn func(batch int, total store.Stats))
}

// SyncStore persists advisory progress snapshots. Snapshot failures are
// logged and ignored; progress reporting never fails an import.
type SyncStore interface {
	PutSnapshot(ctx context.Context, meta *commerce.SyncMetadata) error
}

// RunResult is the final accounting of one import run. Succeeded plus
// Failed covers every non-empty row read: rows rejected at transform
// time count as failed alongside write failures.
type RunResult struct {
	SyncID         string
	Resource       string
	FilesTotal     int
	FilesCompleted int
	RowsProcessed  int
	Succeeded      int
	Failed         int
}

// Pipeline drives a whole import run over one or more CSV files. Files
// and batches are processed strictly sequentially.
type Pipeline struct {
	resource      string
	transformer   *Transformer
	writer        RecordWriter
	sync          SyncStore
	progressEvery int
	log           *zap.Logger
	now           func() time.Time
}

// NewPipeline creates a pipeline for one resource type. sync may be nil
// when progress snapshots are not wanted.
func NewPipeline(resource string, writer RecordWriter, sync SyncStore, progressEvery int, log *zap.Logger) (*Pipeline, error) {
	switch resource {
	case ResourceOrders, ResourceProducts, ResourceCustomers:
	default:
		return nil, fmt.Errorf("importer: unknown resource %q", resource)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if progressEvery <= 0 {
		progressEvery = 10
	}
	return &Pipeline{
		resource:      resource,
		transformer:   NewTransformer(log),
		writer:        writer,
		sync:          sync,
		progressEvery: progressEvery,
		log:           log,
		now:           time.Now,
	}, nil
}

// Run imports the given files in order and returns the final
// accounting. A file that cannot be read is logged, its rows are not
// counted, and the run continues with the next file.
func (p *Pipeline) Run(ctx context.Context, files []string) *RunResult {
	result := &RunResult{
		SyncID:     uuid.New().String(),
		Resource:   p.resource,
		FilesTotal: len(files),
	}

	meta := &commerce.SyncMetadata{
		SyncID:     result.SyncID,
		Resource:   p.resource,
		Status:     commerce.SyncStatusStarted,
		FilesTotal: len(files),
		StartedAt:  p.now().UTC().Format(time.RFC3339),
	}
	p.snapshot(ctx, meta)

	for _, file := range files {
		rows, failed, err := p.readFile(file)
		if err != nil {
			p.log.Error("skipping unreadable file", zap.String("file", file), zap.Error(err))
			continue
		}

		items, rejected := p.transform(rows)
		failed += rejected
		result.RowsProcessed += len(rows)
		result.Failed += failed

		meta.Status = commerce.SyncStatusInProgress
		p.writer.OnBatch(func(batch int, total store.Stats) {
			if batch%p.progressEvery != 0 {
				return
			}
			meta.RowsProcessed = result.RowsProcessed
			meta.Succeeded = result.Succeeded + total.Succeeded
			meta.Failed = result.Failed + total.Failed
			p.snapshot(ctx, meta)
		})

		stats := p.writer.Write(ctx, items)
		result.Succeeded += stats.Succeeded
		result.Failed += stats.Failed
		result.FilesCompleted++

		meta.FilesCompleted = result.FilesCompleted
		meta.RowsProcessed = result.RowsProcessed
		meta.Succeeded = result.Succeeded
		meta.Failed = result.Failed
		p.snapshot(ctx, meta)

		p.log.Info("file imported",
			zap.String("file", file),
			zap.Int("rows", len(rows)),
			zap.Int("succeeded", stats.Succeeded),
			zap.Int("failed", failed+stats.Failed))
	}

	meta.Status = commerce.SyncStatusCompleted
	if result.FilesCompleted < result.FilesTotal {
		meta.Status = commerce.SyncStatusFailed
		meta.Message = fmt.Sprintf("%d of %d files unreadable", result.FilesTotal-result.FilesCompleted, result.FilesTotal)
	}
	meta.CompletedAt = p.now().UTC().Format(time.RFC3339)
	p.snapshot(ctx, meta)
	p.bookmark(ctx, meta)

	return result
}

// readFile parses one CSV file into rows. The returned failed count is
// reserved for row-level read problems surfaced by the parser.
func (p *Pipeline) readFile(path string) ([]*csvio.Row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reader, err := csvio.NewReader(f)
	if err != nil {
		return nil, 0, err
	}
	rows, err := reader.ReadAll()
	if err != nil {
		// Keep the rows read so far; the malformed tail is unreadable.
		p.log.Warn("csv read stopped early", zap.String("file", path), zap.Error(err))
	}
	return rows, 0, nil
}

// transform normalizes and deduplicates rows, returning writable items
// and the count of rejected rows.
func (p *Pipeline) transform(rows []*csvio.Row) ([]store.Item, int) {
	now := p.now()
	rejected := 0

	var (
		items []store.Item
		err   error
	)
	switch p.resource {
	case ResourceOrders:
		records := make([]*commerce.Order, 0, len(rows))
		for _, row := range rows {
			if rec := p.transformer.Order(row, now); rec != nil {
				records = append(records, rec)
			} else {
				rejected++
			}
		}
		items, err = store.NewItems(commerce.Deduplicate(records))
	case ResourceProducts:
		records := make([]*commerce.Product, 0, len(rows))
		for _, row := range rows {
			if rec := p.transformer.Product(row, now); rec != nil {
				records = append(records, rec)
			} else {
				rejected++
			}
		}
		items, err = store.NewItems(commerce.Deduplicate(records))
	case ResourceCustomers:
		records := make([]*commerce.Customer, 0, len(rows))
		for _, row := range rows {
			if rec := p.transformer.Customer(row, now); rec != nil {
				records = append(records, rec)
			} else {
				rejected++
			}
		}
		items, err = store.NewItems(commerce.Deduplicate(records))
	}
	if err != nil {
		// Marshal failures are vanishingly rare for these flat records;
		// treat the whole set as rejected rather than guessing.
		p.log.Error("marshal records failed", zap.Error(err))
		return nil, len(rows)
	}
	return items, rejected
}

// snapshot persists an advisory progress record, best effort.
func (p *Pipeline) snapshot(ctx context.Context, meta *commerce.SyncMetadata) {
	if p.sync == nil {
		return
	}
	meta.Touch(p.now())
	if err := p.sync.PutSnapshot(ctx, meta); err != nil {
		p.log.Warn("sync snapshot write failed", zap.String("syncId", meta.SyncID), zap.Error(err))
	}
}

// bookmark overwrites the per-resource last-sync record.
func (p *Pipeline) bookmark(ctx context.Context, meta *commerce.SyncMetadata) {
	if p.sync == nil {
		return
	}
	last := *meta
	last.SyncID = commerce.LastSyncID(p.resource)
	if err := p.sync.PutSnapshot(ctx, &last); err != nil {
		p.log.Warn("last-sync bookmark write failed", zap.String("syncId", last.SyncID), zap.Error(err))
	}
}
