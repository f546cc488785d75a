package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for the optional periodic rebuild. Each tick kicks
// the trigger without force, so the staleness gate still decides whether any
// work happens.
type Scheduler struct {
	scheduler gocron.Scheduler
	trigger   *Trigger
}

// NewScheduler creates a scheduler that kicks the given trigger.
func NewScheduler(trigger *Trigger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, trigger: trigger}, nil
}

// SchedulePeriodicRebuild registers the interval job and returns its ID.
func (s *Scheduler) SchedulePeriodicRebuild(interval time.Duration) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			slog.Debug("Periodic rebuild tick")
			s.trigger.Kick(false)
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
