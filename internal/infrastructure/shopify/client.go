package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseSize is the maximum allowed response size from the Admin
// API (10MB).
const maxResponseSize = 10 * 1024 * 1024

var (
	ErrUnavailable     = errors.New("shopify: api unavailable")
	ErrRequestFailed   = errors.New("shopify: request failed")
	ErrInvalidResponse = errors.New("shopify: invalid response")
)

// Client talks to the Shopify Admin REST API for one shop.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a client with the given configuration.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// FetchOrders lists orders updated at or after updatedAtMin, up to
// limit (max 250 per the API).
func (c *Client) FetchOrders(ctx context.Context, updatedAtMin time.Time, limit int) ([]WebhookOrder, error) {
	if limit <= 0 || limit > 250 {
		limit = 250
	}
	params := url.Values{}
	params.Set("status", "any")
	params.Set("limit", fmt.Sprintf("%d", limit))
	if !updatedAtMin.IsZero() {
		params.Set("updated_at_min", updatedAtMin.UTC().Format(time.RFC3339))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "orders.json?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp OrdersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return resp.Orders, nil
}

// RegisterWebhook subscribes the given address to a topic. Registering
// an already-subscribed topic/address pair is treated as success.
func (c *Client) RegisterWebhook(ctx context.Context, topic, address string) (*WebhookSubscription, error) {
	existing, err := c.ListWebhooks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Topic == topic && existing[i].Address == address {
			return &existing[i], nil
		}
	}

	payload, _ := json.Marshal(webhookEnvelope{Webhook: &WebhookSubscription{
		Topic:   topic,
		Address: address,
		Format:  "json",
	}})
	body, err := c.doRequest(ctx, http.MethodPost, "webhooks.json", payload)
	if err != nil {
		return nil, err
	}

	var resp webhookEnvelope
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if resp.Webhook == nil {
		return nil, ErrInvalidResponse
	}
	return resp.Webhook, nil
}

// ListWebhooks returns the shop's current webhook subscriptions.
func (c *Client) ListWebhooks(ctx context.Context) ([]WebhookSubscription, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "webhooks.json", nil)
	if err != nil {
		return nil, err
	}
	var resp webhookEnvelope
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return resp.Webhooks, nil
}

// doRequest performs an authenticated request against the Admin API.
func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	endpoint := fmt.Sprintf("https://%s/admin/api/%s/%s", c.config.ShopDomain, c.config.APIVersion, path)
	if strings.HasPrefix(c.config.ShopDomain, "http://") || strings.HasPrefix(c.config.ShopDomain, "https://") {
		// Test servers pass a full URL as the domain.
		endpoint = fmt.Sprintf("%s/admin/api/%s/%s", c.config.ShopDomain, c.config.APIVersion, path)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = strings.NewReader(string(payload))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
