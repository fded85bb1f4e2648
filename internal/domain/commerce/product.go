package commerce

import "time"

// Product is the persisted shape of a catalog product.
type Product struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Handle      string    `json:"handle" dynamodbav:"handle"`
	Description string    `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Type        string    `json:"type,omitempty" dynamodbav:"type,omitempty"`
	Vendor      string    `json:"vendor,omitempty" dynamodbav:"vendor,omitempty"`
	Tags        []string  `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	Variants    []Variant `json:"variants" dynamodbav:"variants"`
	Images      []string  `json:"images,omitempty" dynamodbav:"images,omitempty"`
	CreatedAt   string    `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   string    `json:"updated_at" dynamodbav:"updated_at"`
	SyncedAt    string    `json:"synced_at" dynamodbav:"synced_at"`
}

// Variant is a sellable variation of a product.
type Variant struct {
	ID        string `json:"id" dynamodbav:"id"`
	Title     string `json:"title" dynamodbav:"title"`
	Price     string `json:"price" dynamodbav:"price"`
	SKU       string `json:"sku" dynamodbav:"sku"`
	Inventory int    `json:"inventory" dynamodbav:"inventory"`
}

// Key returns the natural key used as the store partition key.
func (p Product) Key() string { return p.ID }

// ModifiedAt returns the record's recency timestamp for deduplication.
func (p Product) ModifiedAt() (time.Time, bool) {
	if t, ok := ParseTimestamp(p.UpdatedAt); ok {
		return t, true
	}
	return ParseTimestamp(p.CreatedAt)
}
