package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
)

// syncKeyAttr is the partition key attribute of the sync metadata table.
const syncKeyAttr = "syncId"

// SyncRepository persists sync/import progress snapshots.
type SyncRepository struct {
	client API
	table  string
}

// NewSyncRepository creates a repository over the given table.
func NewSyncRepository(client API, table string) *SyncRepository {
	return &SyncRepository{client: client, table: table}
}

// PutSnapshot overwrites the snapshot for its sync id.
func (r *SyncRepository) PutSnapshot(ctx context.Context, meta *commerce.SyncMetadata) error {
	attrs, err := attributevalue.MarshalMap(meta)
	if err != nil {
		return fmt.Errorf("store: marshal sync metadata %q: %w", meta.SyncID, err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      attrs,
	})
	if err != nil {
		return fmt.Errorf("store: put sync metadata %q: %w", meta.SyncID, err)
	}
	return nil
}

// Get fetches a snapshot by sync id, returning ErrNotFound when absent.
func (r *SyncRepository) Get(ctx context.Context, syncID string) (*commerce.SyncMetadata, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			syncKeyAttr: &types.AttributeValueMemberS{Value: syncID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store: get sync metadata %q: %w", syncID, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var meta commerce.SyncMetadata
	if err := attributevalue.UnmarshalMap(out.Item, &meta); err != nil {
		return nil, fmt.Errorf("store: unmarshal sync metadata %q: %w", syncID, err)
	}
	return &meta, nil
}
