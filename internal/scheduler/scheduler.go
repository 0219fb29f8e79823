// Package scheduler runs the daily report job on a cron schedule.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Service wraps a gocron scheduler.
type Service struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
}

// New creates a scheduler in the given timezone. Jobs that panic are logged
// and do not take the process down.
func New(timezone string, logger *slog.Logger) (*Service, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	sched, err := gocron.NewScheduler(
		gocron.WithLocation(loc),
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("scheduler job panicked",
						"job_id", jobID.String(),
						"job_name", jobName,
						"panic", recoverData)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Service{scheduler: sched, logger: logger}, nil
}

// AddJob registers a cron-based job.
func (s *Service) AddJob(name, cronExpr string, task func()) error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", name, err)
	}
	s.logger.Info("scheduled job", "job_name", name, "cron", cronExpr)
	return nil
}

// Start begins running scheduled jobs.
func (s *Service) Start() {
	s.scheduler.Start()
}

// Stop shuts down the scheduler.
func (s *Service) Stop() error {
	return s.scheduler.Shutdown()
}
