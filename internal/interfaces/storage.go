package interfaces

import (
	"time"

	"github.com/ternarybob/tally/internal/models"
)

// AnalysisStorage persists analysis results keyed by document ID.
type AnalysisStorage interface {
	SaveAnalysis(record *models.AnalysisRecord) error
	GetAnalysis(documentID string) (*models.AnalysisRecord, error)
	ListAnalyses(limit int) ([]*models.AnalysisRecord, error)
	DeleteAnalysis(documentID string) error
	// PruneOlderThan deletes records created before cutoff and returns
	// the number removed.
	PruneOlderThan(cutoff time.Time) (int, error)
}

// StorageManager owns the database connection and the typed storages.
type StorageManager interface {
	AnalysisStorage() AnalysisStorage
	// RunGC triggers a value-log garbage collection pass.
	RunGC() error
	Close() error
}
