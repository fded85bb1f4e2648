package ads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func googleTestConfig(baseURL string) *GoogleConfig {
	return &GoogleConfig{
		DeveloperToken: "dev-token",
		AccessToken:    "access-token",
		CustomerID:     "123-456-7890",
		APIBaseURL:     baseURL,
	}
}

func TestGoogleConfigValidate(t *testing.T) {
	cfg := googleTestConfig("")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "1234567890", cfg.CustomerID)
	assert.Equal(t, GoogleProductionAPIURL, cfg.APIBaseURL)

	assert.ErrorIs(t, (&GoogleConfig{}).Validate(), ErrGoogleConfigMissingDeveloperToken)
	assert.ErrorIs(t, (&GoogleConfig{DeveloperToken: "d"}).Validate(), ErrGoogleConfigMissingAccessToken)
	assert.ErrorIs(t, (&GoogleConfig{DeveloperToken: "d", AccessToken: "a"}).Validate(), ErrGoogleConfigMissingCustomerID)
}

func TestGoogleFetchMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "customers/1234567890/googleAds:search")
		assert.Equal(t, "dev-token", r.Header.Get("developer-token"))
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"results": [
				{"metrics": {"costMicros": "100000000", "impressions": "5000", "clicks": "150", "conversionsValue": 380.0}},
				{"metrics": {"costMicros": "50000000", "impressions": "2500", "clicks": "50", "conversionsValue": 220.0}}
			]
		}`))
	}))
	defer server.Close()

	adapter, err := NewGoogleAdapter(googleTestConfig(server.URL))
	require.NoError(t, err)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	metrics, err := adapter.FetchMetrics(context.Background(), start, end)
	require.NoError(t, err)

	assert.InDelta(t, 150.0, metrics.Spend, 1e-9)
	assert.InDelta(t, 600.0, metrics.Revenue, 1e-9)
	assert.Equal(t, int64(7500), metrics.Impressions)
	assert.Equal(t, int64(200), metrics.Clicks)
	assert.InDelta(t, 4.0, metrics.ROAS, 1e-6)
	assert.InDelta(t, 0.75, metrics.CPC, 1e-6)
}

func TestGoogleFetchMetricsNoCampaigns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	adapter, err := NewGoogleAdapter(googleTestConfig(server.URL))
	require.NoError(t, err)

	metrics, err := adapter.FetchMetrics(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	assert.Equal(t, &Metrics{}, metrics)
}

func TestGoogleFetchMetricsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "The caller does not have permission", "status": "PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	adapter, err := NewGoogleAdapter(googleTestConfig(server.URL))
	require.NoError(t, err)

	_, err = adapter.FetchMetrics(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
}
