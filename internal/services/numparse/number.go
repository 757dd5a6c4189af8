// Package numparse parses locale-formatted numeric, percentage and
// currency strings as they appear in extracted financial documents.
// All functions are pure; heuristic misses return nil/"" rather than
// errors.
package numparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultCurrencyCodes is the allow-list of ISO currency codes the
// extractors will accept. Passed into the matching functions so tests
// and locale tuning can substitute their own list.
var DefaultCurrencyCodes = []string{
	"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD",
	"CNY", "HKD", "SGD", "SEK", "NOK", "DKK", "INR", "ZAR",
}

// DefaultCurrencySymbols maps a currency symbol to its default code.
// The mapping is a last-resort default, not a disambiguation: "$" always
// maps to USD here even when CAD/AUD context exists elsewhere in the
// document. Document-level disambiguation lives in the patterns package.
var DefaultCurrencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

// symbolOrder fixes the scan order over DefaultCurrencySymbols so
// extraction is deterministic.
var symbolOrder = []string{"$", "€", "£", "¥"}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumber parses a numeric string, tolerating currency symbols,
// thousands separators and surrounding text. Every character except
// digits, "." and "-" is stripped before parsing. Returns nil when the
// remainder is empty or not a valid float.
func ParseNumber(s string) *float64 {
	cleaned := nonNumeric.ReplaceAllString(s, "")
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParsePercentage parses a percentage string into a fraction.
// "45%" -> 0.45, "0.45" -> 0.45. A bare number with magnitude greater
// than 1 is assumed to be a whole-number percentage, so "45" -> 0.45.
// Returns nil on parse failure.
func ParsePercentage(s string) *float64 {
	hasPercent := strings.Contains(s, "%")
	v := ParseNumber(s)
	if v == nil {
		return nil
	}
	f := *v
	if hasPercent {
		f /= 100
	} else if math.Abs(f) > 1 {
		f /= 100
	}
	return &f
}

// ExtractCurrency finds a currency code in s, checking the allow-list of
// ISO codes first and falling back to symbol defaults. Returns "" when
// nothing matches.
func ExtractCurrency(s string) string {
	return ExtractCurrencyFrom(s, DefaultCurrencyCodes, DefaultCurrencySymbols)
}

// ExtractCurrencyFrom is ExtractCurrency with explicit code and symbol
// tables.
func ExtractCurrencyFrom(s string, codes []string, symbols map[string]string) string {
	upper := strings.ToUpper(s)
	for _, code := range codes {
		if strings.Contains(upper, code) {
			return code
		}
	}
	for _, sym := range symbolOrder {
		code, ok := symbols[sym]
		if !ok {
			continue
		}
		if strings.Contains(s, sym) {
			return code
		}
	}
	return ""
}

// IsCurrencyCode reports whether code is in the allow-list.
func IsCurrencyCode(code string, codes []string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
