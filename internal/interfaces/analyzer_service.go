package interfaces

import "github.com/ternarybob/tally/internal/models"

// AnalyzerService turns an extracted financial document into a
// normalized summary.
type AnalyzerService interface {
	// Analyze produces the financial summary for one document. The
	// returned summary is always non-nil when the document is
	// structurally valid; a non-nil error alongside it reports failed
	// extraction steps whose fields were left empty.
	Analyze(doc *models.FinancialDocument) (*models.FinancialSummary, error)
}
