package ads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GoogleAdapter fetches aggregate ad performance via the Google Ads
// search endpoint.
type GoogleAdapter struct {
	config     *GoogleConfig
	httpClient *http.Client
}

// NewGoogleAdapter creates an adapter with the given configuration.
func NewGoogleAdapter(config *GoogleConfig) (*GoogleAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &GoogleAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// FetchMetrics returns aggregate performance for the inclusive date
// range, summed across campaigns. No matching campaigns yields zero
// metrics.
func (a *GoogleAdapter) FetchMetrics(ctx context.Context, start, end time.Time) (*Metrics, error) {
	query := fmt.Sprintf(
		"SELECT metrics.cost_micros, metrics.impressions, metrics.clicks, metrics.conversions_value "+
			"FROM campaign WHERE segments.date BETWEEN '%s' AND '%s'",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	payload, _ := json.Marshal(map[string]string{"query": query})
	endpoint := fmt.Sprintf("%s/customers/%s/googleAds:search", a.config.APIBaseURL, a.config.CustomerID)

	body, err := a.doRequest(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var resp GoogleSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrRequestFailed, resp.Error.Message, resp.Error.Status)
	}

	metrics := &Metrics{}
	for _, row := range resp.Results {
		metrics.Spend += float64(parseInt(row.Metrics.CostMicros)) / 1e6
		metrics.Impressions += parseInt(row.Metrics.Impressions)
		metrics.Clicks += parseInt(row.Metrics.Clicks)
		metrics.Revenue += row.Metrics.ConversionValue
	}
	metrics.Derive()
	return metrics, nil
}

// doRequest performs an authenticated POST against the Google Ads API.
func (a *GoogleAdapter) doRequest(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("googleads: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	req.Header.Set("developer-token", a.config.DeveloperToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("googleads: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope GoogleSearchResponse
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error != nil {
			return nil, fmt.Errorf("%w: %s (%s)", ErrRequestFailed, envelope.Error.Message, envelope.Error.Status)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	return body, nil
}
