// Package scheduler runs the periodic jobs of the library service on cron
// schedules: the scheduled borrowings report and retention cleanup.
//
// Jobs only enqueue work on the task queue; they never touch borrowing
// status. Overdue loans are found by ListOverdue at read time.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/library/internal/clock"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Jobs enqueues the work triggered by the schedules.
type Jobs interface {
	EnqueueReport(start, end time.Time) error
	EnqueueMaintenance() error
}

// Config selects which schedules run.
type Config struct {
	ReportEnabled       bool
	ReportSchedule      string
	ReportLookback      time.Duration
	MaintenanceSchedule string // empty disables maintenance
}

// Scheduler manages the cron entries of the periodic jobs.
type Scheduler struct {
	jobs  Jobs
	clock clock.Clock
	cfg   Config

	cron       *cron.Cron
	entries    map[string]cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// New creates a scheduler. Nothing runs until Start.
func New(jobs Jobs, clk clock.Clock, cfg Config) *Scheduler {
	return &Scheduler{
		jobs:    jobs,
		clock:   clk,
		cfg:     cfg,
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
	}
}

// ValidateSchedule checks a five field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// Start registers the enabled jobs and starts the cron runner. It stops
// when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.ReportEnabled {
		if s.cfg.ReportLookback <= 0 {
			return fmt.Errorf("report lookback must be positive, got %v", s.cfg.ReportLookback)
		}
		if err := s.add("report", s.cfg.ReportSchedule, s.RunReport); err != nil {
			return err
		}
	}
	if s.cfg.MaintenanceSchedule != "" {
		if err := s.add("maintenance", s.cfg.MaintenanceSchedule, s.RunMaintenance); err != nil {
			return err
		}
	}

	if len(s.entries) == 0 {
		log.Printf("Scheduler: no jobs enabled")
		return nil
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	for name, id := range s.entries {
		log.Printf("Scheduler: %s job scheduled, next run %v", name, s.cron.Entry(id).Next)
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) add(name, schedule string, job func()) error {
	if err := ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s' for %s job: %w", schedule, name, err)
	}
	id, err := s.cron.AddFunc(schedule, job)
	if err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", name, err)
	}
	s.entries[name] = id
	return nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	log.Printf("Scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the named job ("report" or "maintenance") runs next.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	id, ok := s.entries[name]
	if !ok {
		return nil
	}
	next := s.cron.Entry(id).Next
	return &next
}

// RunReport enqueues an export of the lookback window ending now.
func (s *Scheduler) RunReport() {
	end := s.clock.Now()
	start := end.Add(-s.cfg.ReportLookback)

	if err := s.jobs.EnqueueReport(start, end); err != nil {
		log.Printf("Scheduler: failed to enqueue report export: %v", err)
		return
	}
	log.Printf("Scheduler: enqueued report export for %s..%s", start.Format(time.RFC3339), end.Format(time.RFC3339))
}

// RunMaintenance enqueues the retention cleanup tasks.
func (s *Scheduler) RunMaintenance() {
	if err := s.jobs.EnqueueMaintenance(); err != nil {
		log.Printf("Scheduler: failed to enqueue maintenance: %v", err)
		return
	}
	log.Printf("Scheduler: enqueued maintenance tasks")
}
