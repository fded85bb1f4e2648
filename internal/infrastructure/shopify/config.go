package shopify

import "errors"

// Config holds credentials for the Shopify Admin API.
type Config struct {
	// ShopDomain is the myshopify domain, e.g. myfrido.myshopify.com
	ShopDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// WebhookSecret signs incoming webhook payloads
	WebhookSecret string
	// APIVersion is the Admin API version, e.g. 2025-01
	APIVersion string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// DefaultAPIVersion is used when no version is configured.
const DefaultAPIVersion = "2025-01"

var (
	ErrConfigMissingShopDomain  = errors.New("shopify: shop domain is required")
	ErrConfigMissingAccessToken = errors.New("shopify: access token is required")
)

// Validate checks required fields and fills defaults.
func (c *Config) Validate() error {
	if c.ShopDomain == "" {
		return ErrConfigMissingShopDomain
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
