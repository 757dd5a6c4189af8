package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tally/internal/interfaces"
	"github.com/ternarybob/tally/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// AnalysisStorage implements the AnalysisStorage interface for Badger
type AnalysisStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new AnalysisStorage instance
func NewAnalysisStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

func (s *AnalysisStorage) SaveAnalysis(record *models.AnalysisRecord) error {
	if record.DocumentID == "" {
		return fmt.Errorf("document ID is required")
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if err := s.db.Store().Upsert(record.DocumentID, record); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

func (s *AnalysisStorage) GetAnalysis(documentID string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	if err := s.db.Store().Get(documentID, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("analysis not found: %s", documentID)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &record, nil
}

func (s *AnalysisStorage) ListAnalyses(limit int) ([]*models.AnalysisRecord, error) {
	var records []models.AnalysisRecord
	if err := s.db.Store().Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	// Newest first
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result := make([]*models.AnalysisRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *AnalysisStorage) DeleteAnalysis(documentID string) error {
	if err := s.db.Store().Delete(documentID, &models.AnalysisRecord{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

func (s *AnalysisStorage) PruneOlderThan(cutoff time.Time) (int, error) {
	var stale []models.AnalysisRecord
	query := badgerhold.Where("CreatedAt").Lt(cutoff)
	if err := s.db.Store().Find(&stale, query); err != nil {
		return 0, fmt.Errorf("failed to find stale analyses: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.AnalysisRecord{}, query); err != nil {
		return 0, fmt.Errorf("failed to prune analyses: %w", err)
	}

	s.logger.Debug().Int("count", len(stale)).Msg("Pruned stale analyses")
	return len(stale), nil
}
