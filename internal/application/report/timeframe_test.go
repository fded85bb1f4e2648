package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	tf, err := ParseDateRange("2025-06-01", "2025-06-15")
	require.NoError(t, err)

	// Business-local midnight is 18:30 UTC the previous evening.
	assert.Equal(t, time.Date(2025, 5, 31, 18, 30, 0, 0, time.UTC), tf.Start)
	// End is exclusive: midnight after the last reporting day.
	assert.Equal(t, time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC), tf.End)
}

func TestParseDateRangeSingleDay(t *testing.T) {
	tf, err := ParseDateRange("2025-06-01", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, tf.End.Sub(tf.Start))
}

func TestParseDateRangeErrors(t *testing.T) {
	_, err := ParseDateRange("", "2025-06-15")
	assert.ErrorIs(t, err, ErrMissingDateRange)

	_, err = ParseDateRange("2025-06-01", "")
	assert.ErrorIs(t, err, ErrMissingDateRange)

	_, err = ParseDateRange("06/01/2025", "2025-06-15")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDateRange("2025-06-15", "2025-06-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
