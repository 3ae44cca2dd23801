// Package scheduler runs recurring tab-order audits on a cron schedule.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tabcheck/internal/common"
)

// AuditFunc runs one audit pass over the configured URLs.
type AuditFunc func() error

// Status describes the scheduler's view of the audit job.
type Status struct {
	Schedule  string     `json:"schedule"`
	Running   bool       `json:"running"`
	IsActive  bool       `json:"is_active"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// Service wraps a cron scheduler around a single audit job.
type Service struct {
	config  common.ScheduleConfig
	handler AuditFunc
	cron    *cron.Cron
	logger  arbor.ILogger

	mu        sync.Mutex
	cronID    cron.EntryID
	running   bool
	isActive  bool
	lastRun   *time.Time
	lastError string
}

// NewService creates a scheduler service
func NewService(config common.ScheduleConfig, handler AuditFunc, logger arbor.ILogger) *Service {
	return &Service{
		config:  config,
		handler: handler,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the audit job and begins the cron loop.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	expr := s.config.Expression
	if expr == "" {
		expr = "0 * * * *" // Default: hourly
	}

	cronID, err := s.cron.AddFunc(expr, s.runAudit)
	if err != nil {
		return fmt.Errorf("failed to add audit job to cron: %w", err)
	}
	s.cronID = cronID

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", expr).
		Int("urls", len(s.config.URLs)).
		Msg("Audit scheduler started")

	return nil
}

// Stop halts the scheduler. A currently running audit is allowed to finish.
// The mutex is released before waiting so the in-flight audit can record its
// completion.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info().Msg("Audit scheduler stopped")
	return nil
}

// IsRunning returns true if the scheduler is active
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TriggerNow runs the audit job immediately in the background.
func (s *Service) TriggerNow() error {
	s.mu.Lock()
	if s.isActive {
		s.mu.Unlock()
		return fmt.Errorf("audit is already running")
	}
	s.mu.Unlock()

	s.logger.Info().Msg("Manually triggering scheduled audit")
	go s.runAudit()
	return nil
}

// GetStatus returns the current scheduler state.
func (s *Service) GetStatus() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	var nextRun *time.Time
	if s.running {
		for _, entry := range s.cron.Entries() {
			if entry.ID == s.cronID {
				next := entry.Next
				nextRun = &next
				break
			}
		}
	}

	return &Status{
		Schedule:  s.config.Expression,
		Running:   s.running,
		IsActive:  s.isActive,
		LastRun:   s.lastRun,
		NextRun:   nextRun,
		LastError: s.lastError,
	}
}

// runAudit wraps the handler with overlap protection, panic recovery, and
// status tracking.
func (s *Service) runAudit() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in scheduled audit")

			s.mu.Lock()
			s.isActive = false
			s.lastError = fmt.Sprintf("panic: %v", r)
			s.mu.Unlock()
		}
	}()

	s.mu.Lock()
	if s.isActive {
		s.logger.Debug().Msg("Previous audit still running, skipping this cycle")
		s.mu.Unlock()
		return
	}
	s.isActive = true
	s.mu.Unlock()

	start := time.Now()
	s.logger.Info().Msg("Scheduled audit started")

	err := s.handler()

	completionTime := time.Now()
	s.mu.Lock()
	s.isActive = false
	s.lastRun = &completionTime
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Scheduled audit failed")
	} else {
		s.logger.Info().
			Dur("duration", time.Since(start)).
			Msg("Scheduled audit completed")
	}
}
