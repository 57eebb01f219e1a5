// Package maintenance runs the periodic housekeeping jobs: index checks,
// WAL checkpointing and the overdue loan snapshot.
package maintenance

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/dates"
	"github.com/avolkov/libtrack/internal/lending"
)

// Scheduler manages the periodic maintenance jobs.
type Scheduler struct {
	db        *database.Database
	lifecycle *lending.Service
	schedule  string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler. schedule is a five-field cron
// expression.
func NewScheduler(db *database.Database, lifecycle *lending.Service, schedule string) *Scheduler {
	return &Scheduler{
		db:        db,
		lifecycle: lifecycle,
		schedule:  schedule,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start runs the startup maintenance pass immediately and schedules the
// recurring jobs.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	// Missing indexes are created at startup rather than waiting for the
	// first scheduled run.
	if err := s.db.EnsureIndexes(); err != nil {
		return fmt.Errorf("startup maintenance: %w", err)
	}
	log.Info().Msg("startup maintenance completed")

	if _, err := s.cron.AddFunc(s.schedule, s.runMaintenance); err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Info().Str("schedule", s.schedule).Msg("maintenance scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Info().Msg("maintenance scheduler stopped")
}

func (s *Scheduler) runMaintenance() {
	if err := s.checkpointWAL(); err != nil {
		log.Error().Err(err).Msg("WAL checkpoint failed")
	}

	overdue, err := s.lifecycle.OverdueCount(dates.Today())
	if err != nil {
		log.Error().Err(err).Msg("overdue snapshot failed")
		return
	}
	log.Info().Int64("overdue_loans", overdue).Msg("maintenance pass completed")
}

// checkpointWAL folds the write-ahead log back into the main database
// file so it does not grow unbounded between restarts.
func (s *Scheduler) checkpointWAL() error {
	return s.db.DB.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error
}
