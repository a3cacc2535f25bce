package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps a gocron scheduler for the watcher's periodic tasks.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Every schedules task to run every interval and returns the job ID.
// Runs never overlap.
func (s *Scheduler) Every(name string, interval time.Duration, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create %s job: %w", name, err)
	}
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Debug("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Debug("Stopping scheduler")
	return s.scheduler.Shutdown()
}
