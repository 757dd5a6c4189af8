// Package patterns runs ordered heuristic cascades over document text
// and classified tables to extract the portfolio value, the reporting
// currency and period performance. Each cascade is an explicit ordered
// rule list evaluated until the first success; precedence is part of
// each cascade's contract, and a miss at every stage yields nil, never
// a guess.
package patterns

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tally/internal/services/tables"
)

// Thresholds gate numeric candidates so incidental small numbers (page
// counts, footnote indices) are not mistaken for portfolio totals.
type Thresholds struct {
	// MinPortfolioValue is the floor for targeted matches (text patterns
	// and summary-row scans).
	MinPortfolioValue float64
	// MinLargestCellValue is the higher floor for the least targeted
	// heuristic, the largest-cell fallback.
	MinLargestCellValue float64
}

// DefaultThresholds returns the standard candidate floors.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinPortfolioValue:   1000,
		MinLargestCellValue: 10000,
	}
}

// Matcher extracts document-level fields from text and tables.
type Matcher struct {
	classifier *tables.Classifier
	thresholds Thresholds
	logger     arbor.ILogger
}

// NewMatcher creates a matcher over the given classifier.
func NewMatcher(classifier *tables.Classifier, logger arbor.ILogger) *Matcher {
	return &Matcher{
		classifier: classifier,
		thresholds: DefaultThresholds(),
		logger:     logger,
	}
}

// NewMatcherWithThresholds creates a matcher with custom candidate floors.
func NewMatcherWithThresholds(classifier *tables.Classifier, thresholds Thresholds, logger arbor.ILogger) *Matcher {
	return &Matcher{
		classifier: classifier,
		thresholds: thresholds,
		logger:     logger,
	}
}
