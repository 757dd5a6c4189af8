// Package securities merges partial security detections with
// table-derived rows into one consistent list of holdings, keyed by
// ISIN. The fill rule is "first discovery wins": a field already holding
// a value is never overwritten, completing records is the only mutation.
package securities

import (
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tally/internal/models"
	"github.com/ternarybob/tally/internal/services/numparse"
	"github.com/ternarybob/tally/internal/services/tables"
)

// isinPattern matches an International Securities Identification Number:
// two letters followed by ten alphanumerics.
var isinPattern = regexp.MustCompile(`\b[A-Z]{2}[A-Z0-9]{10}\b`)

// Reconciler builds the final security list from candidate detections
// and securities-classified tables.
type Reconciler struct {
	classifier *tables.Classifier
	logger     arbor.ILogger
}

// NewReconciler creates a reconciler over the given classifier.
func NewReconciler(classifier *tables.Classifier, logger arbor.ILogger) *Reconciler {
	return &Reconciler{
		classifier: classifier,
		logger:     logger,
	}
}

// columnSet holds the resolved column indexes for one securities table;
// -1 means the column did not resolve.
type columnSet struct {
	isin, name, quantity, price, value, currency, secType int
}

// Reconcile merges the candidate list with securities-table rows.
// Candidates seed the result in order; table rows then fill empty fields
// of known ISINs or append new ones, in table/row encounter order so the
// merge is deterministic. A single derivation pass completes price or
// value where exactly one of the three related fields is missing.
func (r *Reconciler) Reconcile(tbls []models.Table, candidates []models.PartialSecurity) []models.Security {
	result := make([]models.Security, 0, len(candidates))
	index := make(map[string]int) // ISIN -> position in result

	for _, c := range candidates {
		if c.Code == "" {
			continue
		}
		if pos, ok := index[c.Code]; ok {
			fill(&result[pos], securityFromCandidate(c))
			continue
		}
		index[c.Code] = len(result)
		result = append(result, securityFromCandidate(c))
	}

	for i := range tbls {
		t := &tbls[i]
		if !r.classifier.IsSecuritiesTable(t) {
			continue
		}
		cols := r.resolveColumns(t.Headers)
		for row := range t.Rows {
			isin := findISIN(t, row, cols.isin)
			if isin == "" {
				continue
			}
			sec := r.securityFromRow(t, row, cols, isin)
			if pos, ok := index[isin]; ok {
				fill(&result[pos], sec)
				continue
			}
			index[isin] = len(result)
			result = append(result, sec)
		}
	}

	derive(result)

	r.logger.Debug().
		Int("candidates", len(candidates)).
		Int("securities", len(result)).
		Msg("Securities reconciled")

	return result
}

func (r *Reconciler) resolveColumns(headers []string) columnSet {
	kw := r.classifier.Keywords()
	return columnSet{
		isin:     tables.FindColumnIndex(headers, kw.ISINColumn),
		name:     tables.FindColumnIndex(headers, kw.NameColumn),
		quantity: tables.FindColumnIndex(headers, kw.QuantityColumn),
		price:    tables.FindColumnIndex(headers, kw.PriceColumn),
		value:    tables.FindColumnIndex(headers, kw.ValueColumn),
		currency: tables.FindColumnIndex(headers, kw.CurrencyColumn),
		secType:  tables.FindColumnIndex(headers, kw.TypeColumn),
	}
}

// findISIN reads an ISIN from the resolved identifier column, falling
// back to scanning every cell in the row when the column is missing or
// holds no ISIN.
func findISIN(t *models.Table, row, isinCol int) string {
	if isinCol >= 0 {
		if isin := isinPattern.FindString(t.Cell(row, isinCol)); isin != "" {
			return isin
		}
	}
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	for _, cell := range t.Rows[row] {
		if isin := isinPattern.FindString(cell); isin != "" {
			return isin
		}
	}
	return ""
}

func securityFromCandidate(c models.PartialSecurity) models.Security {
	secType := c.SecurityType
	if secType == "" {
		secType = models.SecurityTypeUnknown
	}
	return models.Security{
		ISIN:         c.Code,
		Name:         strings.TrimSpace(c.Name),
		Quantity:     c.Quantity,
		Value:        c.Value,
		SecurityType: secType,
	}
}

func (r *Reconciler) securityFromRow(t *models.Table, row int, cols columnSet, isin string) models.Security {
	sec := models.Security{
		ISIN:         isin,
		SecurityType: models.SecurityTypeUnknown,
	}
	if cols.name >= 0 {
		sec.Name = strings.TrimSpace(t.Cell(row, cols.name))
	}
	if cols.quantity >= 0 {
		sec.Quantity = numparse.ParseNumber(t.Cell(row, cols.quantity))
	}
	if cols.price >= 0 {
		sec.Price = numparse.ParseNumber(t.Cell(row, cols.price))
	}
	if cols.value >= 0 {
		sec.Value = numparse.ParseNumber(t.Cell(row, cols.value))
	}
	if cols.currency >= 0 {
		sec.Currency = numparse.ExtractCurrency(t.Cell(row, cols.currency))
	}
	if cols.secType >= 0 {
		if secType := strings.TrimSpace(t.Cell(row, cols.secType)); secType != "" {
			sec.SecurityType = strings.ToLower(secType)
		}
	}
	return sec
}

// fill copies src fields into dst only where dst has no value yet.
// The security type counts as absent while it is still "unknown".
func fill(dst *models.Security, src models.Security) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Quantity == nil {
		dst.Quantity = src.Quantity
	}
	if dst.Price == nil {
		dst.Price = src.Price
	}
	if dst.Value == nil {
		dst.Value = src.Value
	}
	if dst.Currency == "" {
		dst.Currency = src.Currency
	}
	if dst.SecurityType == "" || dst.SecurityType == models.SecurityTypeUnknown {
		if src.SecurityType != "" {
			dst.SecurityType = src.SecurityType
		}
	}
}

// derive performs the single cross-field arithmetic pass. No iteration:
// a record missing two of the three fields stays partially populated.
func derive(secs []models.Security) {
	for i := range secs {
		s := &secs[i]
		switch {
		case s.Quantity != nil && s.Value != nil && s.Price == nil && *s.Quantity > 0:
			price := *s.Value / *s.Quantity
			s.Price = &price
		case s.Quantity != nil && s.Price != nil && s.Value == nil:
			value := *s.Quantity * *s.Price
			s.Value = &value
		}
	}
}
