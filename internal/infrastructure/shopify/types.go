package shopify

import (
	"strconv"
	"time"

	"github.com/myfrido/analytics-backend/internal/domain/commerce"
)

// WebhookOrder is the order payload Shopify posts to order webhooks.
// Only the fields the dashboard stores are decoded.
type WebhookOrder struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	FinancialStatus   string             `json:"financial_status"`
	FulfillmentStatus string             `json:"fulfillment_status"`
	CreatedAt         string             `json:"created_at"`
	UpdatedAt         string             `json:"updated_at"`
	TotalPrice        string             `json:"total_price"`
	SubtotalPrice     string             `json:"subtotal_price"`
	TotalTax          string             `json:"total_tax"`
	Currency          string             `json:"currency"`
	Tags              string             `json:"tags"`
	Customer          *WebhookCustomer   `json:"customer"`
	LineItems         []WebhookLineItem  `json:"line_items"`
	DiscountCodes     []WebhookDiscount  `json:"discount_codes"`
	ShippingAddress   *commerce.Address  `json:"shipping_address"`
	BillingAddress    *commerce.Address  `json:"billing_address"`
}

// WebhookCustomer is the embedded customer sub-record.
type WebhookCustomer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// WebhookLineItem is one order line.
type WebhookLineItem struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	SKU       string `json:"sku"`
}

// WebhookDiscount is one applied discount code.
type WebhookDiscount struct {
	Code string `json:"code"`
}

// OrdersResponse is the Admin API orders listing envelope.
type OrdersResponse struct {
	Orders []WebhookOrder `json:"orders"`
}

// WebhookSubscription is one registered webhook.
type WebhookSubscription struct {
	ID      int64  `json:"id"`
	Topic   string `json:"topic"`
	Address string `json:"address"`
	Format  string `json:"format"`
}

// webhookEnvelope wraps subscription create/list payloads.
type webhookEnvelope struct {
	Webhook  *WebhookSubscription  `json:"webhook,omitempty"`
	Webhooks []WebhookSubscription `json:"webhooks,omitempty"`
}

// ToOrder converts the webhook payload into the stored order shape.
func (o *WebhookOrder) ToOrder(now time.Time) *commerce.Order {
	order := &commerce.Order{
		ID:                strconv.FormatInt(o.ID, 10),
		Name:              o.Name,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		Total:             commerce.NormalizeAmount(o.TotalPrice),
		Subtotal:          commerce.NormalizeAmount(o.SubtotalPrice),
		Tax:               commerce.NormalizeAmount(o.TotalTax),
		Currency:          o.Currency,
		Tags:              splitTags(o.Tags),
		ShippingAddress:   o.ShippingAddress,
		BillingAddress:    o.BillingAddress,
		SyncedAt:          now.UTC().Format(time.RFC3339),
	}
	if o.FinancialStatus == "" {
		order.FinancialStatus = "unknown"
	}
	if o.Customer != nil {
		order.Customer = commerce.OrderCustomer{
			ID:    strconv.FormatInt(o.Customer.ID, 10),
			Name:  joinName(o.Customer.FirstName, o.Customer.LastName),
			Email: o.Customer.Email,
		}
	}
	for _, li := range o.LineItems {
		order.LineItems = append(order.LineItems, commerce.LineItem{
			ID:        strconv.FormatInt(li.ID, 10),
			ProductID: strconv.FormatInt(li.ProductID, 10),
			VariantID: strconv.FormatInt(li.VariantID, 10),
			Title:     li.Title,
			Quantity:  li.Quantity,
			Price:     commerce.NormalizeAmount(li.Price),
			SKU:       li.SKU,
		})
	}
	for _, dc := range o.DiscountCodes {
		order.DiscountCodes = append(order.DiscountCodes, dc.Code)
	}
	return order
}
