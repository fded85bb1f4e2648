package ads

import "errors"

// MetaConfig holds configuration for the Meta (Facebook) Marketing API.
type MetaConfig struct {
	// AccessToken is a system-user token with ads_read scope
	AccessToken string
	// AdAccountID is the ad account, with or without the act_ prefix
	AdAccountID string
	// APIBaseURL is the Graph API base (overridable for tests)
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// MetaProductionAPIURL is the production Graph API endpoint.
const MetaProductionAPIURL = "https://graph.facebook.com/v21.0"

var (
	ErrMetaConfigMissingToken   = errors.New("meta: access token is required")
	ErrMetaConfigMissingAccount = errors.New("meta: ad account id is required")
)

// Validate checks required fields and fills defaults.
func (c *MetaConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrMetaConfigMissingToken
	}
	if c.AdAccountID == "" {
		return ErrMetaConfigMissingAccount
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = MetaProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
