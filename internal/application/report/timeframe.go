// Package report builds the dashboard metrics: it validates date
// ranges, runs warehouse and ad-platform queries behind a best-effort
// cache, and folds the results into derived business metrics.
package report

import (
	"errors"
	"fmt"
	"time"
)

// BusinessZone is the fixed reporting timezone (UTC+05:30). Reporting
// days are business-local days, not UTC days.
var BusinessZone = time.FixedZone("IST", 5*3600+30*60)

var (
	ErrMissingDateRange = errors.New("report: startDate and endDate are required")
	ErrInvalidDate      = errors.New("report: invalid date, expected YYYY-MM-DD")
)

// Timeframe is a half-open UTC instant window covering whole
// business-local days: [Start, End).
type Timeframe struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange validates an inclusive YYYY-MM-DD date pair and
// converts it to the instant window of those business-local days.
func ParseDateRange(startDate, endDate string) (Timeframe, error) {
	if startDate == "" || endDate == "" {
		return Timeframe{}, ErrMissingDateRange
	}
	start, err := time.ParseInLocation("2006-01-02", startDate, BusinessZone)
	if err != nil {
		return Timeframe{}, fmt.Errorf("%w: %q", ErrInvalidDate, startDate)
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, BusinessZone)
	if err != nil {
		return Timeframe{}, fmt.Errorf("%w: %q", ErrInvalidDate, endDate)
	}
	if end.Before(start) {
		return Timeframe{}, fmt.Errorf("%w: endDate before startDate", ErrInvalidDate)
	}
	return Timeframe{
		Start: start.UTC(),
		End:   end.AddDate(0, 0, 1).UTC(),
	}, nil
}

// CacheKey builds a window-scoped cache key fragment.
func (tf Timeframe) CacheKey() string {
	return fmt.Sprintf("%d-%d", tf.Start.Unix(), tf.End.Unix())
}
