package interfaces

import "github.com/ternarybob/tally/internal/models"

// IngestService reshapes raw extracted content into the engine's input
// shape. It never performs PDF or OCR extraction; that stays upstream.
type IngestService interface {
	// PrepareDocument returns a copy of doc with Tables populated from
	// markdown or HTML found in the extracted text when the upstream
	// extractor supplied none.
	PrepareDocument(doc *models.FinancialDocument) (*models.FinancialDocument, error)
}
