package commerce

import (
	"strings"
	"time"
)

// Customer is the persisted shape of a storefront customer.
type Customer struct {
	ID          string            `json:"id" dynamodbav:"id"`
	Email       string            `json:"email" dynamodbav:"email"`
	FirstName   string            `json:"first_name" dynamodbav:"first_name"`
	LastName    string            `json:"last_name" dynamodbav:"last_name"`
	OrdersCount int               `json:"orders_count" dynamodbav:"orders_count"`
	TotalSpent  string            `json:"total_spent" dynamodbav:"total_spent"`
	Addresses   []CustomerAddress `json:"addresses,omitempty" dynamodbav:"addresses,omitempty"`
	Tags        []string          `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	CreatedAt   string            `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   string            `json:"updated_at" dynamodbav:"updated_at"`
	SyncedAt    string            `json:"synced_at" dynamodbav:"synced_at"`
}

// CustomerAddress is one of a customer's saved addresses. At most one
// address carries the default flag.
type CustomerAddress struct {
	Address
	Default bool `json:"default" dynamodbav:"default"`
}

// FullName joins the customer's name parts, skipping empty segments.
func (c Customer) FullName() string {
	parts := make([]string, 0, 2)
	if c.FirstName != "" {
		parts = append(parts, c.FirstName)
	}
	if c.LastName != "" {
		parts = append(parts, c.LastName)
	}
	return strings.Join(parts, " ")
}

// Key returns the natural key used as the store partition key.
func (c Customer) Key() string { return c.ID }

// ModifiedAt returns the record's recency timestamp for deduplication.
func (c Customer) ModifiedAt() (time.Time, bool) {
	if t, ok := ParseTimestamp(c.UpdatedAt); ok {
		return t, true
	}
	return ParseTimestamp(c.CreatedAt)
}
