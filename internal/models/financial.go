package models

// SecurityTypeUnknown is the default security type when no classification
// is available from either the candidate list or a securities table.
const SecurityTypeUnknown = "unknown"

// Table is a rectangular fragment extracted upstream from a source
// document. Row lengths are not guaranteed to match the header count;
// consumers must treat out-of-range cells as absent.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Cell returns the cell at (row, col), or "" when either index is out of
// range. Ragged rows are common in extracted tables.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// PartialSecurity is a security detection from the upstream entity layer,
// independent of any table data. Identity key is Code (the ISIN); a
// detection with no code is skipped during reconciliation rather than
// rejected, so no validation tag enforces it.
type PartialSecurity struct {
	Code         string   `json:"code"`
	Name         string   `json:"name,omitempty"`
	Quantity     *float64 `json:"quantity,omitempty"`
	Value        *float64 `json:"value,omitempty"`
	SecurityType string   `json:"security_type,omitempty"`
}

// Security is a reconciled holding. Nil numeric fields and empty string
// fields mean "not found in any source". If any two of quantity, price
// and value are known the third is derived once (value = quantity * price).
type Security struct {
	ISIN         string   `json:"isin"`
	Name         string   `json:"name,omitempty"`
	Quantity     *float64 `json:"quantity,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Value        *float64 `json:"value,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	SecurityType string   `json:"security_type"`
}

// AssetAllocation maps an asset-class label, as found in the source, to a
// fraction in [0,1]. Labels are not normalized to a fixed enum.
type AssetAllocation map[string]float64

// PerformanceMetrics holds returns for the standard reporting periods,
// each a fraction or nil when not found.
type PerformanceMetrics struct {
	YTD            *float64 `json:"ytd"`
	OneYear        *float64 `json:"one_year"`
	ThreeYear      *float64 `json:"three_year"`
	FiveYear       *float64 `json:"five_year"`
	SinceInception *float64 `json:"since_inception"`
}

// IsEmpty reports whether no period was extracted.
func (p *PerformanceMetrics) IsEmpty() bool {
	return p.YTD == nil && p.OneYear == nil && p.ThreeYear == nil &&
		p.FiveYear == nil && p.SinceInception == nil
}

// FinancialSummary is the normalized result of one document analysis.
// It is constructed once per invocation and never mutated after return.
type FinancialSummary struct {
	PortfolioValue  *float64           `json:"portfolio_value"`
	AssetAllocation AssetAllocation    `json:"asset_allocation"`
	Securities      []Security         `json:"securities"`
	Performance     PerformanceMetrics `json:"performance"`
	Currency        string             `json:"currency,omitempty"`
}
