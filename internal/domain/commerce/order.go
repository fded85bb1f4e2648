package commerce

import "time"

// Order is the persisted shape of a sales order. The natural key is the
// source platform's order ID; re-importing the same ID overwrites the
// stored record (last-writer-wins).
type Order struct {
	ID                string         `json:"id" dynamodbav:"id"`
	Name              string         `json:"name" dynamodbav:"name"`
	FinancialStatus   string         `json:"financial_status" dynamodbav:"financial_status"`
	FulfillmentStatus string         `json:"fulfillment_status" dynamodbav:"fulfillment_status"`
	CreatedAt         string         `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         string         `json:"updated_at" dynamodbav:"updated_at"`
	Total             string         `json:"total" dynamodbav:"total"`
	Subtotal          string         `json:"subtotal" dynamodbav:"subtotal"`
	Tax               string         `json:"tax" dynamodbav:"tax"`
	Currency          string         `json:"currency" dynamodbav:"currency"`
	Customer          OrderCustomer  `json:"customer" dynamodbav:"customer"`
	LineItems         []LineItem     `json:"line_items" dynamodbav:"line_items"`
	ShippingAddress   *Address       `json:"shipping_address,omitempty" dynamodbav:"shipping_address,omitempty"`
	BillingAddress    *Address       `json:"billing_address,omitempty" dynamodbav:"billing_address,omitempty"`
	Tags              []string       `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	DiscountCodes     []string       `json:"discount_codes,omitempty" dynamodbav:"discount_codes,omitempty"`
	SyncedAt          string         `json:"synced_at" dynamodbav:"synced_at"`
}

// OrderCustomer is the customer sub-record embedded in an order.
type OrderCustomer struct {
	ID    string `json:"id" dynamodbav:"id"`
	Name  string `json:"name" dynamodbav:"name"`
	Email string `json:"email" dynamodbav:"email"`
}

// LineItem is one purchased item line within an order.
type LineItem struct {
	ID        string `json:"id" dynamodbav:"id"`
	ProductID string `json:"product_id" dynamodbav:"product_id"`
	VariantID string `json:"variant_id" dynamodbav:"variant_id"`
	Title     string `json:"title" dynamodbav:"title"`
	Quantity  int    `json:"quantity" dynamodbav:"quantity"`
	Price     string `json:"price" dynamodbav:"price"`
	SKU       string `json:"sku" dynamodbav:"sku"`
}

// Address is a shipping or billing address.
type Address struct {
	Name     string `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Address1 string `json:"address1,omitempty" dynamodbav:"address1,omitempty"`
	Address2 string `json:"address2,omitempty" dynamodbav:"address2,omitempty"`
	City     string `json:"city,omitempty" dynamodbav:"city,omitempty"`
	Province string `json:"province,omitempty" dynamodbav:"province,omitempty"`
	Country  string `json:"country,omitempty" dynamodbav:"country,omitempty"`
	Zip      string `json:"zip,omitempty" dynamodbav:"zip,omitempty"`
	Phone    string `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
}

// Key returns the natural key used as the store partition key.
func (o Order) Key() string { return o.ID }

// ModifiedAt returns the record's recency timestamp for deduplication:
// updated_at when parseable, created_at as fallback. A record with
// neither is reported as not modified and always loses ties.
func (o Order) ModifiedAt() (time.Time, bool) {
	if t, ok := ParseTimestamp(o.UpdatedAt); ok {
		return t, true
	}
	return ParseTimestamp(o.CreatedAt)
}
