package analyzer

import (
	"regexp"
	"strings"

	"github.com/ternarybob/tally/internal/models"
	"github.com/ternarybob/tally/internal/services/numparse"
	"github.com/ternarybob/tally/internal/services/tables"
)

// allocationTextPattern is the free-text fallback: "45% in equities",
// "30% of bonds", "10% allocated to cash".
var allocationTextPattern = regexp.MustCompile(
	`(?i)(\d+(?:\.\d+)?)\s*%\s+(?:in|of|allocated\s+to)\s+([A-Za-z][A-Za-z &/\-]{1,40})`)

// hasLetter distinguishes asset-class labels from stray numeric cells.
var hasLetter = regexp.MustCompile(`[A-Za-z]`)

// trailingConjunction trims list connectives the label capture drags in,
// e.g. "bonds and" from "30% of bonds and 10% allocated to cash".
var trailingConjunction = regexp.MustCompile(`(?i)\s+(?:and|or|plus)$`)

// assetAllocation extracts the asset-class breakdown. Allocation tables
// are scanned first; labels are kept as found in the source
// (last-seen-wins per label), fractions outside [0,1] are rejected. When
// no table yields an entry the text fallback collects every
// "<percent>% in <class>" phrase in the document.
func (s *Service) assetAllocation(text string, tbls []models.Table) models.AssetAllocation {
	allocation := models.AssetAllocation{}

	for i := range tbls {
		t := &tbls[i]
		if !s.classifier.IsAllocationTable(t) {
			continue
		}
		s.allocationFromTable(t, allocation)
	}
	if len(allocation) > 0 {
		return allocation
	}

	for _, match := range allocationTextPattern.FindAllStringSubmatch(text, -1) {
		pct := numparse.ParsePercentage(match[1] + "%")
		if pct == nil || *pct < 0 || *pct > 1 {
			continue
		}
		label := trailingConjunction.ReplaceAllString(strings.TrimSpace(match[2]), "")
		if len(label) < 2 {
			continue
		}
		allocation[label] = *pct
	}
	return allocation
}

func (s *Service) allocationFromTable(t *models.Table, allocation models.AssetAllocation) {
	kw := s.classifier.Keywords()
	classCol := tables.FindColumnIndex(t.Headers, kw.AssetClassColumn)
	if classCol < 0 {
		return
	}
	pctCol := tables.FindColumnIndex(t.Headers, kw.PercentColumn)

	for row := range t.Rows {
		label := strings.TrimSpace(t.Cell(row, classCol))
		if len(label) < 2 {
			continue
		}
		if strings.Contains(strings.ToLower(label), "total") {
			continue
		}
		if !hasLetter.MatchString(label) {
			continue
		}

		pct := s.rowPercentage(t, row, classCol, pctCol)
		if pct == nil || *pct < 0 || *pct > 1 {
			continue
		}
		allocation[label] = *pct
	}
}

// rowPercentage reads the resolved percentage column, or scans the row
// for the first parseable percentage when no column resolved. The label
// cell is never read as a percentage.
func (s *Service) rowPercentage(t *models.Table, row, classCol, pctCol int) *float64 {
	if pctCol >= 0 && pctCol != classCol {
		return numparse.ParsePercentage(t.Cell(row, pctCol))
	}
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	for col := range t.Rows[row] {
		if col == classCol {
			continue
		}
		if pct := numparse.ParsePercentage(t.Rows[row][col]); pct != nil {
			return pct
		}
	}
	return nil
}
