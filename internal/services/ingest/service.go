// Package ingest reshapes raw extracted content into the engine's input
// shape. Upstream extractors normally deliver tables separately; when a
// caller only has text with tables still inline (markdown pipe-tables or
// HTML fragments), this service derives the Table values so the engine
// can run unchanged. PDF and OCR extraction stay upstream.
package ingest

import (
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tally/internal/common"
	"github.com/ternarybob/tally/internal/interfaces"
	"github.com/ternarybob/tally/internal/models"
)

// Service implements interfaces.IngestService
type Service struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.IngestService = (*Service)(nil)

// NewService creates a new ingest service
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// PrepareDocument returns a copy of doc, assigning an ID when missing
// and populating Tables from the extracted text when the upstream
// extractor supplied none. The input document is never mutated.
func (s *Service) PrepareDocument(doc *models.FinancialDocument) (*models.FinancialDocument, error) {
	prepared := *doc
	prepared.Tables = append([]models.Table(nil), doc.Tables...)
	prepared.ISINs = append([]models.PartialSecurity(nil), doc.ISINs...)

	if prepared.ID == "" {
		prepared.ID = common.NewDocumentID()
	}

	if len(prepared.Tables) > 0 || prepared.ExtractedText == "" {
		return &prepared, nil
	}

	switch {
	case looksLikeHTML(prepared.ExtractedText):
		tbls, err := ExtractHTMLTables(prepared.ExtractedText)
		if err != nil {
			return nil, err
		}
		prepared.Tables = tbls
		// Normalize the HTML to markdown so the regex cascades see
		// clean prose instead of markup.
		prepared.ExtractedText = s.TextFromHTML(prepared.ExtractedText)
		s.logger.Debug().Str("doc_id", prepared.ID).Int("tables", len(tbls)).Msg("Tables derived from HTML")
	case looksLikeMarkdownTable(prepared.ExtractedText):
		prepared.Tables = ExtractMarkdownTables(prepared.ExtractedText)
		s.logger.Debug().Str("doc_id", prepared.ID).Int("tables", len(prepared.Tables)).Msg("Tables derived from markdown")
	}

	return &prepared, nil
}

func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range []string{"<html", "<body", "<table", "<div", "<p>"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func looksLikeMarkdownTable(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|") {
			return true
		}
	}
	return false
}
