package store

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
)

// Item is one marshaled record ready for a batch write, carrying the
// natural key and recency timestamp needed for write-side deduplication.
type Item struct {
	Key      string
	Modified time.Time
	attrs    map[string]types.AttributeValue
}

// NewItem marshals a domain record into a writable item.
func NewItem(rec commerce.Record) (Item, error) {
	attrs, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return Item{}, fmt.Errorf("store: marshal item %q: %w", rec.Key(), err)
	}
	mod, _ := rec.ModifiedAt()
	return Item{Key: rec.Key(), Modified: mod, attrs: attrs}, nil
}

// NewItems marshals a slice of domain records, failing on the first
// record that cannot be marshaled.
func NewItems[R commerce.Record](records []R) ([]Item, error) {
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		item, err := NewItem(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
