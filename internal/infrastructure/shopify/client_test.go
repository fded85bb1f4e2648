package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *Config {
	return &Config{
		ShopDomain:  baseURL,
		AccessToken: "shpat_test",
		APIVersion:  "2025-01",
	}
}

func TestConfigValidate(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).Validate(), ErrConfigMissingShopDomain)
	assert.ErrorIs(t, (&Config{ShopDomain: "x.myshopify.com"}).Validate(), ErrConfigMissingAccessToken)

	cfg := &Config{ShopDomain: "x.myshopify.com", AccessToken: "tok"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
}

func TestFetchOrders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2025-01/orders.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		w.Write([]byte(`{"orders": [
			{"id": 5001, "name": "#1001", "financial_status": "paid", "total_price": "499.00",
			 "customer": {"id": 9001, "first_name": "Asha", "last_name": "Rao", "email": "asha@example.com"},
			 "line_items": [{"id": 1, "product_id": 2, "variant_id": 3, "title": "Insole", "quantity": 2, "price": "249.50", "sku": "INS-01"}]}
		]}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	orders, err := client.FetchOrders(context.Background(), time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(5001), orders[0].ID)
	assert.Equal(t, "paid", orders[0].FinancialStatus)
}

func TestRegisterWebhookIdempotent(t *testing.T) {
	created := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"webhooks": [{"id": 7, "topic": "orders/updated", "address": "https://api.example.com/webhooks/shopify", "format": "json"}]}`))
		case http.MethodPost:
			created++
			w.Write([]byte(`{"webhook": {"id": 8, "topic": "orders/create", "address": "https://api.example.com/webhooks/shopify", "format": "json"}}`))
		}
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	// Already registered: returned without a create call.
	sub, err := client.RegisterWebhook(context.Background(), "orders/updated", "https://api.example.com/webhooks/shopify")
	require.NoError(t, err)
	assert.Equal(t, int64(7), sub.ID)
	assert.Zero(t, created)

	// New topic: created.
	sub, err = client.RegisterWebhook(context.Background(), "orders/create", "https://api.example.com/webhooks/shopify")
	require.NoError(t, err)
	assert.Equal(t, int64(8), sub.ID)
	assert.Equal(t, 1, created)
}

func TestToOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := &WebhookOrder{
		ID:            5001,
		Name:          "#1001",
		TotalPrice:    "499",
		Tags:          "repeat, cod",
		Customer:      &WebhookCustomer{ID: 9001, FirstName: "Asha", LastName: "Rao", Email: "asha@example.com"},
		LineItems:     []WebhookLineItem{{ID: 1, ProductID: 2, VariantID: 3, Title: "Insole", Quantity: 2, Price: "249.5", SKU: "INS-01"}},
		DiscountCodes: []WebhookDiscount{{Code: "WELCOME10"}},
	}

	order := payload.ToOrder(now)

	assert.Equal(t, "5001", order.ID)
	assert.Equal(t, "unknown", order.FinancialStatus)
	assert.Equal(t, "499.00", order.Total)
	assert.Equal(t, []string{"repeat", "cod"}, order.Tags)
	assert.Equal(t, "Asha Rao", order.Customer.Name)
	require.Len(t, order.LineItems, 1)
	assert.Equal(t, "249.50", order.LineItems[0].Price)
	assert.Equal(t, []string{"WELCOME10"}, order.DiscountCodes)
	assert.Equal(t, "2025-06-01T12:00:00Z", order.SyncedAt)
}

func TestVerifyWebhook(t *testing.T) {
	secret := "whsec"
	body := []byte(`{"id": 5001}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyWebhook(secret, body, signature))
	assert.False(t, VerifyWebhook(secret, []byte(`{"id": 5002}`), signature))
	assert.False(t, VerifyWebhook("", body, signature))
	assert.False(t, VerifyWebhook(secret, body, ""))
}
