package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/driftbyte/esdump/pkg/config"
)

// CycleFunc executes one export cycle with the configuration current at
// tick time.
type CycleFunc func(ctx context.Context, cfg *config.Config) error

// Scheduler drives recurring export cycles from a cron expression.
type Scheduler struct {
	cron    *cron.Cron
	cycle   CycleFunc
	logger  *slog.Logger
	mu      sync.Mutex
	cfg     *config.Config
	running bool
	inCycle atomic.Bool
}

// New creates a scheduler that runs cycle on the schedule in
// cfg.Schedule.Cron.
func New(cfg *config.Config, cycle CycleFunc) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		cycle:  cycle,
		cfg:    cfg,
		logger: slog.Default().With("component", "schedule"),
	}
}

// Start validates the cron expression, registers the cycle job, and
// starts the scheduler. The scheduler stops itself when ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expr := s.cfg.Schedule.Cron
	if expr == "" {
		return fmt.Errorf("schedule.cron is not configured")
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}

	_, err := s.cron.AddFunc(expr, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("export scheduler started", "schedule", expr)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// runCycle executes one export cycle, skipping the tick when the previous
// cycle has not finished.
func (s *Scheduler) runCycle(ctx context.Context) {
	if !s.inCycle.CompareAndSwap(false, true) {
		s.logger.Warn("previous export cycle still running, skipping tick")
		return
	}
	defer s.inCycle.Store(false)

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	s.logger.Info("starting scheduled export cycle")
	if err := s.cycle(ctx, cfg); err != nil {
		s.logger.Error("scheduled export cycle failed", "error", err)
		return
	}
	s.logger.Info("scheduled export cycle completed")
}

// UpdateConfig swaps the configuration used by subsequent cycles.
// The cron expression itself is not re-registered; changing the schedule
// requires a restart.
func (s *Scheduler) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.logger.Info("scheduler configuration updated")
}

// NextRun returns the next scheduled cycle time, or nil when the
// scheduler is not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

// Stop stops the scheduler and waits for a running cycle to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("export scheduler stopped")
	}
}
