package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes history rows older than a cutoff.
type Pruner interface {
	PruneRecentFiles(cutoff time.Time) (int64, error)
}

// Scheduler runs the recent-files retention job on a cron schedule
type Scheduler struct {
	pruner    Pruner
	retention time.Duration
	schedule  cron.Schedule
	spec      string
	now       func() time.Time

	mu      sync.Mutex
	running bool
	cron    *cron.Cron
}

// New creates a scheduler that prunes history older than retentionDays
// whenever spec fires. spec accepts standard 5-field cron expressions and
// descriptors such as @daily or @every 6h.
func New(pruner Pruner, retentionDays int, spec string) (*Scheduler, error) {
	if retentionDays < 1 {
		return nil, fmt.Errorf("retention must be at least 1 day, got %d", retentionDays)
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid history schedule %q: %w", spec, err)
	}
	return &Scheduler{
		pruner:    pruner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		schedule:  schedule,
		spec:      spec,
		now:       time.Now,
	}, nil
}

// Start prunes once immediately and then on every tick of the schedule
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.cron = cron.New()
	s.cron.Schedule(s.schedule, cron.FuncJob(s.runPrune))
	s.cron.Start()
	s.mu.Unlock()

	// Check immediately on start
	go s.runPrune()
}

// Stop stops the scheduler and waits for a running prune to complete
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	<-c.Stop().Done()
}

// NextRun reports when the prune job fires next after t
func (s *Scheduler) NextRun(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// PruneNow deletes history older than the retention window
func (s *Scheduler) PruneNow() (int64, error) {
	cutoff := s.now().Add(-s.retention)
	return s.pruner.PruneRecentFiles(cutoff)
}

func (s *Scheduler) runPrune() {
	deleted, err := s.PruneNow()
	if err != nil {
		slog.Warn("scheduler: history prune failed", "error", err)
		return
	}
	slog.Debug("scheduler: pruned history", "deleted", deleted, "schedule", s.spec, "next_run", s.NextRun(s.now()))
}
