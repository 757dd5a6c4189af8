// Package analyzer assembles the normalized financial summary for one
// document. Each field is extracted by an independent, side-effect-free
// step over the same inputs; one failing step never blocks another, and
// heuristic misses degrade the affected field to nil/empty rather than
// erroring.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tally/internal/interfaces"
	"github.com/ternarybob/tally/internal/models"
	"github.com/ternarybob/tally/internal/services/patterns"
	"github.com/ternarybob/tally/internal/services/securities"
	"github.com/ternarybob/tally/internal/services/tables"
)

// Service implements interfaces.AnalyzerService.
type Service struct {
	classifier *tables.Classifier
	matcher    *patterns.Matcher
	reconciler *securities.Reconciler
	logger     arbor.ILogger
}

// Compile-time assertion
var _ interfaces.AnalyzerService = (*Service)(nil)

// NewService creates an analyzer with the default keyword tables.
func NewService(logger arbor.ILogger) *Service {
	return NewServiceWithKeywords(tables.DefaultKeywords(), logger)
}

// NewServiceWithKeywords creates an analyzer over custom keyword tables,
// e.g. loaded from a keywords override file.
func NewServiceWithKeywords(keywords *tables.Keywords, logger arbor.ILogger) *Service {
	return NewServiceWithOptions(Options{Keywords: keywords}, logger)
}

// Options configures an analyzer beyond the defaults. Nil fields keep
// the built-in behavior.
type Options struct {
	Keywords   *tables.Keywords
	Thresholds *patterns.Thresholds
}

// NewServiceWithOptions creates an analyzer with custom keyword tables
// and candidate-value floors.
func NewServiceWithOptions(opts Options, logger arbor.ILogger) *Service {
	keywords := opts.Keywords
	if keywords == nil {
		keywords = tables.DefaultKeywords()
	}
	thresholds := patterns.DefaultThresholds()
	if opts.Thresholds != nil {
		thresholds = *opts.Thresholds
	}

	classifier := tables.NewClassifier(keywords)
	return &Service{
		classifier: classifier,
		matcher:    patterns.NewMatcherWithThresholds(classifier, thresholds, logger),
		reconciler: securities.NewReconciler(classifier, logger),
		logger:     logger,
	}
}

// Analyze produces the financial summary for one document. The engine is
// stateless: every call receives its full input and returns a complete,
// immutable summary, so concurrent invocations are safe.
//
// Steps run in a fixed order (portfolio value, allocation, securities,
// performance, currency) but are evaluated independently: a panic inside
// one step is captured, its field stays empty, and the remaining steps
// still run. The partial summary is always returned; the joined step
// errors accompany it so the caller can decide whether partial data is
// acceptable.
func (s *Service) Analyze(doc *models.FinancialDocument) (*models.FinancialSummary, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	text := doc.ExtractedText
	tbls := doc.Tables

	summary := &models.FinancialSummary{
		AssetAllocation: models.AssetAllocation{},
		Securities:      []models.Security{},
	}

	steps := []struct {
		name string
		run  func()
	}{
		{"portfolio_value", func() { summary.PortfolioValue = s.matcher.PortfolioValue(text, tbls) }},
		{"asset_allocation", func() { summary.AssetAllocation = s.assetAllocation(text, tbls) }},
		{"securities", func() { summary.Securities = s.reconciler.Reconcile(tbls, doc.ISINs) }},
		{"performance", func() { summary.Performance = s.matcher.Performance(text, tbls) }},
		{"currency", func() { summary.Currency = s.matcher.Currency(text, tbls) }},
	}

	var stepErrs []error
	for _, step := range steps {
		if err := runStep(step.run); err != nil {
			s.logger.Warn().Err(err).Str("step", step.name).Str("doc_id", doc.ID).Msg("Extraction step failed")
			stepErrs = append(stepErrs, fmt.Errorf("%s: %w", step.name, err))
		}
	}

	s.logger.Info().
		Str("doc_id", doc.ID).
		Str("doc_type", doc.DocumentType).
		Int("tables", len(tbls)).
		Int("securities", len(summary.Securities)).
		Bool("has_value", summary.PortfolioValue != nil).
		Msg("Document analyzed")

	return summary, errors.Join(stepErrs...)
}

// runStep executes one extraction step, converting a panic into an
// error so unrelated steps keep running.
func runStep(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extraction panic: %v", r)
		}
	}()
	fn()
	return nil
}
