// Package scheduler runs the cron-driven posting slots.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/JDLondon7/twitter-trading-bot/internal/interfaces"
)

// jobEntry represents a registered job with metadata
type jobEntry struct {
	name     string
	schedule string
	handler  func()
	cronID   cron.EntryID
	lastRun  *time.Time
}

// Service implements SchedulerService. Jobs registered here run one at a
// time: a global lock serializes cycles so a long-hung external call simply
// delays the next trigger instead of overlapping it.
type Service struct {
	cron     *cron.Cron
	logger   arbor.ILogger
	jobMu    sync.Mutex // Protects jobs map and running flag
	globalMu sync.Mutex // Prevents concurrent job execution
	jobs     map[string]*jobEntry
	running  bool
}

// NewService creates a new scheduler service
func NewService(logger arbor.ILogger) interfaces.SchedulerService {
	return &Service{
		cron:   cron.New(),
		logger: logger,
		jobs:   make(map[string]*jobEntry),
	}
}

// RegisterDaily registers a named job against a five-field cron schedule.
func (s *Service) RegisterDaily(name, schedule string, fn func()) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job already registered: %s", name)
	}

	entry := &jobEntry{
		name:     name,
		schedule: schedule,
		handler:  fn,
	}

	cronID, err := s.cron.AddFunc(schedule, func() {
		s.runJob(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", name, err)
	}
	entry.cronID = cronID
	s.jobs[name] = entry

	s.logger.Debug().
		Str("job", name).
		Str("schedule", schedule).
		Msg("Job registered")

	return nil
}

// runJob executes one job under the global lock.
func (s *Service) runJob(entry *jobEntry) {
	s.globalMu.Lock()
	defer s.globalMu.Unlock()

	start := time.Now()
	s.logger.Info().Str("job", entry.name).Msg("Job starting")

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("job", entry.name).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Job panicked")
		}
	}()

	entry.handler()

	now := time.Now()
	entry.lastRun = &now
	s.logger.Info().
		Str("job", entry.name).
		Dur("duration", time.Since(start)).
		Msg("Job finished")
}

// Start begins the scheduler
func (s *Service) Start() error {
	s.jobMu.Lock()
	if s.running {
		s.jobMu.Unlock()
		return fmt.Errorf("scheduler already running")
	}

	s.cron.Start()
	s.running = true
	count := len(s.jobs)
	s.jobMu.Unlock()

	s.logger.Info().Int("jobs", count).Msg("Scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for a running job to complete.
func (s *Service) Stop() error {
	s.jobMu.Lock()
	if !s.running {
		s.jobMu.Unlock()
		return nil
	}
	s.running = false
	s.jobMu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning reports whether the scheduler is active.
func (s *Service) IsRunning() bool {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	return s.running
}
