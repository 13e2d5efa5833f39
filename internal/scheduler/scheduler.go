// Package scheduler runs the daily slate pipeline on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/IsaJohn05/nba-player-props-model/internal/models"
	"github.com/IsaJohn05/nba-player-props-model/internal/service"
)

// Scheduler manages scheduled slate runs in a fixed timezone.
type Scheduler struct {
	cron            *cron.Cron
	pipeline        *service.Pipeline
	logger          *logrus.Entry
	location        *time.Location
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler whose cron expressions are evaluated in
// the given location. Slate timing is league-local, so the location comes
// from configuration rather than the host clock.
func NewScheduler(pipeline *service.Pipeline, location *time.Location, baseLogger *logrus.Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(location)),
		pipeline:        pipeline,
		logger:          baseLogger.WithField("component", "scheduler"),
		location:        location,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleDailySlates schedules one slate run per category at the given cron
// expression. An empty run (no eligible candidates) is logged, not treated
// as a job failure.
func (s *Scheduler) ScheduleDailySlates(cronExpression string, categories []models.StatCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		asOf := time.Now().In(s.location)
		for _, category := range categories {
			result, err := s.pipeline.RunSlate(ctx, category, asOf)
			switch {
			case errors.Is(err, models.ErrNoEligibleCandidates):
				s.logger.WithField("category", category).Warn("Scheduled slate run produced no eligible candidates")
			case err != nil:
				s.logger.WithError(err).WithField("category", category).Error("Scheduled slate run failed")
			default:
				s.logger.WithFields(logrus.Fields{
					"category": category,
					"run_id":   result.RunID.String(),
					"picks":    len(result.Picks),
				}).Info("Scheduled slate run completed")
			}
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron":       cronExpression,
		"categories": categories,
		"timezone":   s.location.String(),
	}).Info("Scheduled daily slate runs")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job up to the
// graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out waiting for running job")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled run.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries.
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
