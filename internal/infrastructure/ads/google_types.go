package ads

// GoogleSearchResponse is one chunk of a searchStream response.
type GoogleSearchResponse struct {
	Results []GoogleSearchRow `json:"results"`
	Error   *GoogleError      `json:"error,omitempty"`
}

// GoogleSearchRow is one result row carrying campaign metrics.
type GoogleSearchRow struct {
	Metrics GoogleMetrics `json:"metrics"`
}

// GoogleMetrics mirrors the API metrics message. Cost comes back in
// micros as a string.
type GoogleMetrics struct {
	CostMicros      string  `json:"costMicros"`
	Impressions     string  `json:"impressions"`
	Clicks          string  `json:"clicks"`
	ConversionValue float64 `json:"conversionsValue"`
}

// GoogleError is the API error body.
type GoogleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
