package ads

// MetaInsightsResponse is the Graph API insights envelope.
type MetaInsightsResponse struct {
	Data  []MetaInsightRow `json:"data"`
	Error *MetaError       `json:"error,omitempty"`
}

// MetaInsightRow is one row of the insights report. The Graph API
// returns all numbers as strings.
type MetaInsightRow struct {
	Spend        string           `json:"spend"`
	Impressions  string           `json:"impressions"`
	Clicks       string           `json:"clicks"`
	PurchaseROAS []MetaActionStat `json:"purchase_roas"`
	ActionValues []MetaActionStat `json:"action_values"`
	DateStart    string           `json:"date_start"`
	DateStop     string           `json:"date_stop"`
}

// MetaActionStat is one action-type/value pair.
type MetaActionStat struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// MetaError is the Graph API error body.
type MetaError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}
