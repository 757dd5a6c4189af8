package patterns

import (
	"regexp"
	"strings"

	"github.com/ternarybob/tally/internal/models"
	"github.com/ternarybob/tally/internal/services/numparse"
)

// portfolioValuePatterns are tried in order against the free text; the
// first captured group that parses above the candidate floor wins.
var portfolioValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)portfolio\s+value\s*[:\s]\s*[$€£¥]?\s*([\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)total\s+assets?\s*[:\s]\s*[$€£¥]?\s*([\d,]+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)value\s+of\s+(?:the\s+)?portfolio\s*[:\s]\s*[$€£¥]?\s*([\d,]+(?:\.\d+)?)`),
}

// totalRowKeywords mark a summary-table row as a candidate total row.
var totalRowKeywords = []string{"total", "portfolio value", "net assets", "account value"}

// PortfolioValue extracts the total portfolio value, or nil when no
// heuristic produces a plausible candidate. Cascade order: text
// patterns, summary-table total rows, largest summary cell.
func (m *Matcher) PortfolioValue(text string, tbls []models.Table) *float64 {
	steps := []struct {
		name string
		run  func() *float64
	}{
		{"text_patterns", func() *float64 { return m.valueFromText(text) }},
		{"summary_rows", func() *float64 { return m.valueFromSummaryRows(tbls) }},
		{"largest_cell", func() *float64 { return m.valueFromLargestCell(tbls) }},
	}

	for _, step := range steps {
		if v := step.run(); v != nil {
			m.logger.Debug().Str("step", step.name).Float64("value", *v).Msg("Portfolio value extracted")
			return v
		}
	}
	return nil
}

func (m *Matcher) valueFromText(text string) *float64 {
	for _, pattern := range portfolioValuePatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		if v := numparse.ParseNumber(match[1]); v != nil && *v > m.thresholds.MinPortfolioValue {
			return v
		}
	}
	return nil
}

// valueFromSummaryRows scans candidate total rows right to left, because
// totals are conventionally the last column.
func (m *Matcher) valueFromSummaryRows(tbls []models.Table) *float64 {
	for i := range tbls {
		t := &tbls[i]
		if !m.classifier.IsSummaryTable(t) {
			continue
		}
		for _, row := range t.Rows {
			if !rowMatchesAny(row, totalRowKeywords) {
				continue
			}
			for col := len(row) - 1; col >= 0; col-- {
				if v := numparse.ParseNumber(row[col]); v != nil && *v > m.thresholds.MinPortfolioValue {
					return v
				}
			}
		}
	}
	return nil
}

// valueFromLargestCell takes the single largest numeric cell across all
// summary tables. Least targeted heuristic, so it carries the higher
// candidate floor.
func (m *Matcher) valueFromLargestCell(tbls []models.Table) *float64 {
	var largest *float64
	for i := range tbls {
		t := &tbls[i]
		if !m.classifier.IsSummaryTable(t) {
			continue
		}
		for _, row := range t.Rows {
			for _, cell := range row {
				v := numparse.ParseNumber(cell)
				if v == nil {
					continue
				}
				if largest == nil || *v > *largest {
					largest = v
				}
			}
		}
	}
	if largest != nil && *largest > m.thresholds.MinLargestCellValue {
		return largest
	}
	return nil
}

// rowMatchesAny reports whether the joined, lower-cased row text
// contains any of the keywords.
func rowMatchesAny(row []string, keywords []string) bool {
	joined := strings.ToLower(strings.Join(row, " "))
	for _, kw := range keywords {
		if strings.Contains(joined, kw) {
			return true
		}
	}
	return false
}
