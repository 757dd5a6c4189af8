package tables

import (
	"strings"

	"github.com/ternarybob/tally/internal/models"
)

// Classifier labels tables by purpose using keyword scoring over the
// header row. Classifications are not mutually exclusive: the same table
// can be a summary table to the portfolio-value extractor and an
// allocation table to the allocation extractor.
type Classifier struct {
	keywords *Keywords
}

// NewClassifier creates a classifier over the given keyword tables.
func NewClassifier(keywords *Keywords) *Classifier {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	return &Classifier{keywords: keywords}
}

// Keywords returns the keyword tables the classifier was built with.
func (c *Classifier) Keywords() *Keywords {
	return c.keywords
}

// HeaderText returns the joined, lower-cased header row used for
// keyword matching.
func HeaderText(t *models.Table) string {
	return strings.ToLower(strings.Join(t.Headers, " "))
}

func headerContainsAny(t *models.Table, keywords []string) bool {
	header := HeaderText(t)
	for _, kw := range keywords {
		if strings.Contains(header, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// IsSummaryTable reports whether the header suggests aggregate/total
// figures. Intentionally broad: summary tables are scanned by both the
// portfolio-value and allocation extractors.
func (c *Classifier) IsSummaryTable(t *models.Table) bool {
	return headerContainsAny(t, c.keywords.Summary)
}

// IsSecuritiesTable reports whether the header suggests line-item
// holdings.
func (c *Classifier) IsSecuritiesTable(t *models.Table) bool {
	return headerContainsAny(t, c.keywords.Securities)
}

// IsPerformanceTable reports whether the header suggests period returns.
func (c *Classifier) IsPerformanceTable(t *models.Table) bool {
	return headerContainsAny(t, c.keywords.Performance)
}

// IsAllocationTable reports whether the header suggests an asset-class
// breakdown.
func (c *Classifier) IsAllocationTable(t *models.Table) bool {
	return headerContainsAny(t, c.keywords.Allocation)
}
