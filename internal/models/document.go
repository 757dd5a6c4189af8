package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// FinancialDocument is the input envelope for one analysis: raw text,
// extracted tables and the candidate security list, all produced by
// upstream collaborators (PDF/OCR extraction, entity recognition).
type FinancialDocument struct {
	// Identity
	ID           string `json:"id"` // doc_<uuid>, generated when empty
	DocumentType string `json:"document_type" validate:"required"`

	// Content
	ExtractedText string            `json:"extracted_text"`
	Tables        []Table           `json:"tables"`
	ISINs         []PartialSecurity `json:"isins"`
}

// Validate validates the document using go-playground/validator.
// Returns an error if required fields are missing. Malformed candidate
// securities are not validated here; the reconciler skips them.
func (d *FinancialDocument) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// AnalysisRecord is a stored analysis result for a document.
type AnalysisRecord struct {
	DocumentID   string           `json:"document_id" badgerhold:"key"`
	DocumentType string           `json:"document_type"`
	Summary      FinancialSummary `json:"summary"`
	CreatedAt    time.Time        `json:"created_at" badgerhold:"index"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
