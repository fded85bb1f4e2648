package warehouse

import (
	"math/big"
	"strconv"

	"cloud.google.com/go/bigquery"
)

// Float normalizes a warehouse value to float64. NUMERIC columns come
// back as *big.Rat, aggregates as int64 or float64, and NULL as nil;
// anything unreadable normalizes to 0.
func Float(v bigquery.Value) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case float64:
		return val
	case int64:
		return float64(val)
	case *big.Rat:
		f, _ := val.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int normalizes a warehouse value to int64, truncating floats.
func Int(v bigquery.Value) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case float64:
		return int64(val)
	case *big.Rat:
		f, _ := val.Float64()
		return int64(f)
	default:
		return 0
	}
}

// String normalizes a warehouse value to a string, empty when NULL.
func String(v bigquery.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
