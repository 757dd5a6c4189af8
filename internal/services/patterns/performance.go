package patterns

import (
	"regexp"

	"github.com/ternarybob/tally/internal/models"
	"github.com/ternarybob/tally/internal/services/numparse"
	"github.com/ternarybob/tally/internal/services/tables"
)

// performanceRowKeywords select the row holding portfolio-level returns
// inside a performance table. First matching row wins and the scan stops.
var performanceRowKeywords = []string{"portfolio", "total", "fund"}

// performanceTextPatterns are the independent free-text fallbacks, one
// per period, each capturing a signed decimal followed by a percent sign.
var performanceTextPatterns = struct {
	ytd, oneYear, threeYear, fiveYear, sinceInception *regexp.Regexp
}{
	ytd:            regexp.MustCompile(`(?i)\bytd\b\s*[:\s]\s*(-?\d+(?:\.\d+)?)\s*%`),
	oneYear:        regexp.MustCompile(`(?i)\b(?:1|one)[\s-]*(?:year|yr)\b\s*[:\s]\s*(-?\d+(?:\.\d+)?)\s*%`),
	threeYear:      regexp.MustCompile(`(?i)\b(?:3|three)[\s-]*(?:year|yr)s?\b\s*[:\s]\s*(-?\d+(?:\.\d+)?)\s*%`),
	fiveYear:       regexp.MustCompile(`(?i)\b(?:5|five)[\s-]*(?:year|yr)s?\b\s*[:\s]\s*(-?\d+(?:\.\d+)?)\s*%`),
	sinceInception: regexp.MustCompile(`(?i)since\s+inception\s*[:\s]\s*(-?\d+(?:\.\d+)?)\s*%`),
}

// Performance extracts period returns. Performance-classified tables are
// scanned first; period columns are resolved with exact matching because
// a loose match would let "1 year" claim a "10 year" column. When no
// table yields any period, five independent text patterns are tried.
func (m *Matcher) Performance(text string, tbls []models.Table) models.PerformanceMetrics {
	if metrics := m.performanceFromTables(tbls); !metrics.IsEmpty() {
		m.logger.Debug().Str("step", "tables").Msg("Performance extracted")
		return metrics
	}
	return performanceFromText(text)
}

func (m *Matcher) performanceFromTables(tbls []models.Table) models.PerformanceMetrics {
	var metrics models.PerformanceMetrics
	kw := m.classifier.Keywords()

	for i := range tbls {
		t := &tbls[i]
		if !m.classifier.IsPerformanceTable(t) {
			continue
		}

		cols := struct {
			ytd, oneYear, threeYear, fiveYear, sinceInception int
		}{
			ytd:            tables.FindColumnIndexExact(t.Headers, kw.YTDColumn),
			oneYear:        tables.FindColumnIndexExact(t.Headers, kw.OneYearColumn),
			threeYear:      tables.FindColumnIndexExact(t.Headers, kw.ThreeYearColumn),
			fiveYear:       tables.FindColumnIndexExact(t.Headers, kw.FiveYearColumn),
			sinceInception: tables.FindColumnIndexExact(t.Headers, kw.SinceInceptionColumn),
		}

		for row := range t.Rows {
			if !rowMatchesAny(t.Rows[row], performanceRowKeywords) {
				continue
			}
			metrics.YTD = percentCell(t, row, cols.ytd)
			metrics.OneYear = percentCell(t, row, cols.oneYear)
			metrics.ThreeYear = percentCell(t, row, cols.threeYear)
			metrics.FiveYear = percentCell(t, row, cols.fiveYear)
			metrics.SinceInception = percentCell(t, row, cols.sinceInception)
			break // first matching row wins
		}

		if !metrics.IsEmpty() {
			return metrics
		}
	}
	return metrics
}

func percentCell(t *models.Table, row, col int) *float64 {
	if col < 0 {
		return nil
	}
	return numparse.ParsePercentage(t.Cell(row, col))
}

func performanceFromText(text string) models.PerformanceMetrics {
	return models.PerformanceMetrics{
		YTD:            percentMatch(performanceTextPatterns.ytd, text),
		OneYear:        percentMatch(performanceTextPatterns.oneYear, text),
		ThreeYear:      percentMatch(performanceTextPatterns.threeYear, text),
		FiveYear:       percentMatch(performanceTextPatterns.fiveYear, text),
		SinceInception: percentMatch(performanceTextPatterns.sinceInception, text),
	}
}

func percentMatch(pattern *regexp.Regexp, text string) *float64 {
	match := pattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return nil
	}
	return numparse.ParsePercentage(match[1] + "%")
}
