package ads

import (
	"errors"
	"strings"
)

// GoogleConfig holds configuration for the Google Ads REST API.
type GoogleConfig struct {
	// DeveloperToken is the Google Ads API developer token
	DeveloperToken string
	// AccessToken is an OAuth2 access token with adwords scope
	AccessToken string
	// CustomerID is the ad account, digits only or xxx-xxx-xxxx
	CustomerID string
	// APIBaseURL is the API base (overridable for tests)
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// GoogleProductionAPIURL is the production API endpoint.
const GoogleProductionAPIURL = "https://googleads.googleapis.com/v18"

var (
	ErrGoogleConfigMissingDeveloperToken = errors.New("googleads: developer token is required")
	ErrGoogleConfigMissingAccessToken    = errors.New("googleads: access token is required")
	ErrGoogleConfigMissingCustomerID     = errors.New("googleads: customer id is required")
)

// Validate checks required fields and fills defaults. Dashes in the
// customer id are stripped, matching how the UI displays account ids.
func (c *GoogleConfig) Validate() error {
	if c.DeveloperToken == "" {
		return ErrGoogleConfigMissingDeveloperToken
	}
	if c.AccessToken == "" {
		return ErrGoogleConfigMissingAccessToken
	}
	if c.CustomerID == "" {
		return ErrGoogleConfigMissingCustomerID
	}
	c.CustomerID = strings.ReplaceAll(c.CustomerID, "-", "")
	if c.APIBaseURL == "" {
		c.APIBaseURL = GoogleProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
