package ads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MetaAdapter fetches aggregate ad performance from the Meta Marketing
// API insights endpoint.
type MetaAdapter struct {
	config     *MetaConfig
	httpClient *http.Client
}

// NewMetaAdapter creates an adapter with the given configuration.
func NewMetaAdapter(config *MetaConfig) (*MetaAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &MetaAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// FetchMetrics returns aggregate performance for the inclusive date
// range. An account with no delivery in the range yields zero metrics.
func (a *MetaAdapter) FetchMetrics(ctx context.Context, start, end time.Time) (*Metrics, error) {
	account := a.config.AdAccountID
	if !strings.HasPrefix(account, "act_") {
		account = "act_" + account
	}

	timeRange, _ := json.Marshal(map[string]string{
		"since": start.Format("2006-01-02"),
		"until": end.Format("2006-01-02"),
	})

	params := url.Values{}
	params.Set("fields", "spend,impressions,clicks,purchase_roas,action_values")
	params.Set("time_range", string(timeRange))
	params.Set("level", "account")
	params.Set("access_token", a.config.AccessToken)

	endpoint := fmt.Sprintf("%s/%s/insights?%s", a.config.APIBaseURL, account, params.Encode())
	body, err := a.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp MetaInsightsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s (code %d)", ErrRequestFailed, resp.Error.Message, resp.Error.Code)
	}

	metrics := &Metrics{}
	for _, row := range resp.Data {
		metrics.Spend += parseFloat(row.Spend)
		metrics.Impressions += parseInt(row.Impressions)
		metrics.Clicks += parseInt(row.Clicks)
		for _, action := range row.ActionValues {
			if action.ActionType == "omni_purchase" || action.ActionType == "purchase" {
				metrics.Revenue += parseFloat(action.Value)
			}
		}
	}
	metrics.Derive()
	return metrics, nil
}

// doRequest performs an HTTP GET against the Graph API.
func (a *MetaAdapter) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("meta: failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("meta: failed to read response: %w", err)
	}

	// Graph API reports errors with a JSON body even on 4xx, so parse
	// before failing on status alone.
	if resp.StatusCode >= 400 {
		var envelope MetaInsightsResponse
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error != nil {
			return nil, fmt.Errorf("%w: %s (code %d)", ErrRequestFailed, envelope.Error.Message, envelope.Error.Code)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	return body, nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
