// Package ads wraps the advertising platform reporting APIs. Each
// platform gets a config/types/adapter triple; both adapters expose the
// same aggregate metrics shape so report services can blend them.
package ads

import "errors"

// maxResponseSize is the maximum allowed response size from an ad
// platform API (10MB).
const maxResponseSize = 10 * 1024 * 1024

// Errors shared by the platform adapters.
var (
	ErrPlatformUnavailable = errors.New("ads: platform unavailable")
	ErrRequestFailed       = errors.New("ads: platform request failed")
	ErrInvalidResponse     = errors.New("ads: invalid platform response")
)

// Metrics is the aggregate ad performance for a date range. Derived
// ratios are computed once via Derive; a zero Metrics is the valid
// "nothing configured / nothing spent" result, not an error.
type Metrics struct {
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	ROAS        float64 `json:"roas"`
	MER         float64 `json:"mer"`
}

// Derive fills the ratio fields from the raw counters. Zero
// denominators yield zero ratios.
func (m *Metrics) Derive() {
	m.CTR = ratio(float64(m.Clicks), float64(m.Impressions)) * 100
	m.CPC = ratio(m.Spend, float64(m.Clicks))
	m.ROAS = ratio(m.Revenue, m.Spend)
	m.MER = ratio(m.Spend, m.Revenue) * 100
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
