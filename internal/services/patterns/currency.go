package patterns

import (
	"regexp"
	"strings"

	"github.com/ternarybob/tally/internal/models"
	"github.com/ternarybob/tally/internal/services/numparse"
	"github.com/ternarybob/tally/internal/services/tables"
)

// currencyPatterns capture an explicit currency declaration in the text.
// The captured code is accepted only when it is in the allow-list.
var currencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)currency\s*[:\s]\s*([A-Za-z]{3})\b`),
	regexp.MustCompile(`(?i)all\s+amounts\s+(?:are\s+)?in\s+([A-Za-z]{3})\b`),
	regexp.MustCompile(`(?i)\b([A-Za-z]{3})[\s-]denominated`),
}

// Currency extracts the reporting currency, or "" when no signal exists
// anywhere in the text or tables. Cascade order: explicit declarations,
// symbol scan with disambiguation, currency-column plurality. The
// currency is never guessed from document type or locale.
func (m *Matcher) Currency(text string, tbls []models.Table) string {
	steps := []struct {
		name string
		run  func() string
	}{
		{"text_patterns", func() string { return m.currencyFromText(text) }},
		{"symbol_scan", func() string { return currencyFromSymbols(text) }},
		{"table_plurality", func() string { return m.currencyFromTables(tbls) }},
	}

	for _, step := range steps {
		if code := step.run(); code != "" {
			m.logger.Debug().Str("step", step.name).Str("currency", code).Msg("Currency extracted")
			return code
		}
	}
	return ""
}

func (m *Matcher) currencyFromText(text string) string {
	for _, pattern := range currencyPatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		code := strings.ToUpper(match[1])
		if numparse.IsCurrencyCode(code, m.classifier.Keywords().CurrencyCodes) {
			return code
		}
	}
	return ""
}

// currencyFromSymbols resolves currency symbols with document-level
// disambiguation: "$" resolves to USD unless the text names CAD or AUD,
// "¥" resolves to JPY unless the text names CNY. This is deliberately
// more careful than the per-cell symbol default in numparse.
func currencyFromSymbols(text string) string {
	switch {
	case strings.Contains(text, "$"):
		if strings.Contains(text, "CAD") || strings.Contains(text, "Canadian dollar") {
			return "CAD"
		}
		if strings.Contains(text, "AUD") || strings.Contains(text, "Australian dollar") {
			return "AUD"
		}
		return "USD"
	case strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(text, "£"):
		return "GBP"
	case strings.Contains(text, "¥"):
		if strings.Contains(text, "CNY") || strings.Contains(text, "Chinese yuan") {
			return "CNY"
		}
		return "JPY"
	}
	return ""
}

// currencyFromTables locates a currency column across all tables and
// returns the plurality code over its cells. Ties break toward the code
// first seen in table/row order.
func (m *Matcher) currencyFromTables(tbls []models.Table) string {
	counts := make(map[string]int)
	var best string
	for i := range tbls {
		t := &tbls[i]
		col := tables.FindColumnIndex(t.Headers, m.classifier.Keywords().CurrencyColumn)
		if col < 0 {
			continue
		}
		for row := range t.Rows {
			code := numparse.ExtractCurrency(t.Cell(row, col))
			if code == "" {
				continue
			}
			counts[code]++
			if best == "" || counts[code] > counts[best] {
				best = code
			}
		}
	}
	return best
}
