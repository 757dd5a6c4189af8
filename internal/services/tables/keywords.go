package tables

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/tally/internal/services/numparse"
)

// Keywords holds every keyword and synonym table the extraction
// heuristics depend on. Materialized as data rather than scattered
// literals so tests and locale tuning can override individual groups
// from a YAML file without touching code.
type Keywords struct {
	// Table classification (substring match against joined headers)
	Summary     []string `yaml:"summary"`
	Securities  []string `yaml:"securities"`
	Performance []string `yaml:"performance"`
	Allocation  []string `yaml:"allocation"`

	// Column synonym groups (loose matching)
	ISINColumn       []string `yaml:"isin_column"`
	NameColumn       []string `yaml:"name_column"`
	QuantityColumn   []string `yaml:"quantity_column"`
	PriceColumn      []string `yaml:"price_column"`
	ValueColumn      []string `yaml:"value_column"`
	CurrencyColumn   []string `yaml:"currency_column"`
	TypeColumn       []string `yaml:"type_column"`
	AssetClassColumn []string `yaml:"asset_class_column"`
	PercentColumn    []string `yaml:"percent_column"`

	// Performance-period synonyms (exact matching only)
	YTDColumn            []string `yaml:"ytd_column"`
	OneYearColumn        []string `yaml:"one_year_column"`
	ThreeYearColumn      []string `yaml:"three_year_column"`
	FiveYearColumn       []string `yaml:"five_year_column"`
	SinceInceptionColumn []string `yaml:"since_inception_column"`

	// CurrencyCodes is the document-level ISO code allow-list applied by
	// the currency cascade's text patterns.
	CurrencyCodes []string `yaml:"currency_codes"`
}

// DefaultKeywords returns the compiled-in keyword tables.
func DefaultKeywords() *Keywords {
	return &Keywords{
		Summary:     []string{"total", "asset", "allocation", "summary", "portfolio", "value"},
		Securities:  []string{"security", "holding", "position", "investment", "isin"},
		Performance: []string{"performance", "return", "ytd", "year"},
		Allocation:  []string{"asset", "allocation", "class", "type"},

		ISINColumn:     []string{"isin", "identifier", "security id", "code", "symbol"},
		NameColumn:     []string{"name", "description", "security", "instrument", "holding"},
		QuantityColumn: []string{"quantity", "qty", "shares", "units", "nominal"},
		PriceColumn:    []string{"price", "rate", "nav", "quote"},
		ValueColumn:    []string{"value", "amount", "balance", "worth"},
		CurrencyColumn: []string{"currency", "ccy"},
		TypeColumn:     []string{"type", "category", "class"},

		AssetClassColumn: []string{"asset class", "class", "category", "type", "asset"},
		PercentColumn:    []string{"%", "percent", "weight", "allocation", "alloc"},

		YTDColumn:            []string{"ytd", "ytd %", "ytd return", "year to date"},
		OneYearColumn:        []string{"1 year", "1 yr", "1yr", "1y", "one year", "12 months", "1 year return"},
		ThreeYearColumn:      []string{"3 year", "3 yr", "3yr", "3y", "three year", "3 years", "3 year return"},
		FiveYearColumn:       []string{"5 year", "5 yr", "5yr", "5y", "five year", "5 years", "5 year return"},
		SinceInceptionColumn: []string{"since inception", "inception", "itd", "inception to date"},

		CurrencyCodes: numparse.DefaultCurrencyCodes,
	}
}

// LoadKeywords reads keyword overrides from a YAML file and applies them
// over the defaults. Only groups present and non-empty in the file are
// replaced. An empty path returns the defaults.
func LoadKeywords(path string) (*Keywords, error) {
	kw := DefaultKeywords()
	if path == "" {
		return kw, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file %s: %w", path, err)
	}

	var overrides Keywords
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse keywords file %s: %w", path, err)
	}

	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&kw.Summary, overrides.Summary)
	merge(&kw.Securities, overrides.Securities)
	merge(&kw.Performance, overrides.Performance)
	merge(&kw.Allocation, overrides.Allocation)
	merge(&kw.ISINColumn, overrides.ISINColumn)
	merge(&kw.NameColumn, overrides.NameColumn)
	merge(&kw.QuantityColumn, overrides.QuantityColumn)
	merge(&kw.PriceColumn, overrides.PriceColumn)
	merge(&kw.ValueColumn, overrides.ValueColumn)
	merge(&kw.CurrencyColumn, overrides.CurrencyColumn)
	merge(&kw.TypeColumn, overrides.TypeColumn)
	merge(&kw.AssetClassColumn, overrides.AssetClassColumn)
	merge(&kw.PercentColumn, overrides.PercentColumn)
	merge(&kw.YTDColumn, overrides.YTDColumn)
	merge(&kw.OneYearColumn, overrides.OneYearColumn)
	merge(&kw.ThreeYearColumn, overrides.ThreeYearColumn)
	merge(&kw.FiveYearColumn, overrides.FiveYearColumn)
	merge(&kw.SinceInceptionColumn, overrides.SinceInceptionColumn)
	merge(&kw.CurrencyCodes, overrides.CurrencyCodes)

	return kw, nil
}
