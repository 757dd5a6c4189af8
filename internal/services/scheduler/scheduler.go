package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tally/internal/interfaces"
)

// Service runs the periodic retention sweep over stored analyses.
type Service struct {
	storage   interfaces.AnalysisStorage
	manager   interfaces.StorageManager
	retention time.Duration
	cron      *cron.Cron
	logger    arbor.ILogger
	mu        sync.Mutex
	running   bool
}

// NewService creates a new retention scheduler
func NewService(manager interfaces.StorageManager, retention time.Duration, logger arbor.ILogger) *Service {
	return &Service{
		storage:   manager.AnalysisStorage(),
		manager:   manager,
		retention: retention,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start begins the sweep schedule with the given cron expression
func (s *Service) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if cronExpr == "" {
		cronExpr = "0 * * * *" // Default: hourly
	}

	if _, err := s.cron.AddFunc(cronExpr, s.runSweep); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("cron_expr", cronExpr).
		Str("retention", s.retention.String()).
		Msg("Retention scheduler started")

	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Retention scheduler stopped")
}

// runSweep prunes analyses older than the retention window, then runs
// a value-log GC pass to reclaim the space.
func (s *Service) runSweep() {
	cutoff := time.Now().Add(-s.retention)

	pruned, err := s.storage.PruneOlderThan(cutoff)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Retention sweep failed")
		return
	}

	if pruned > 0 {
		s.logger.Info().
			Int("pruned", pruned).
			Str("cutoff", cutoff.Format(time.RFC3339)).
			Msg("Retention sweep complete")
	}

	if err := s.manager.RunGC(); err != nil {
		s.logger.Warn().Err(err).Msg("Value-log GC failed")
	}
}
