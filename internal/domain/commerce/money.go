package commerce

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a decimal-as-string monetary field. Spreadsheet
// exports sometimes prefix values with a quote and embed thousands
// separators; both are stripped. Unparseable or empty input yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.TrimPrefix(s, "'"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount serializes a monetary value as a fixed-2-decimal string,
// the canonical stored representation.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NormalizeAmount re-serializes a raw monetary string into the canonical
// fixed-2 form, falling back to "0.00" when the input does not parse.
func NormalizeAmount(s string) string {
	return FormatAmount(ParseAmount(s))
}
