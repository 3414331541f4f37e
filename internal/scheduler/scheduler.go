package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/config"
	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/service/daterange"
)

const jobTimeout = 2 * time.Minute

// Reporter produces the scheduled reports.
type Reporter interface {
	Snapshot(ctx context.Context, token string) (models.DailyReport, error)
	WeeklyReport(ctx context.Context) (string, error)
}

// Notifier delivers a rendered report.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	notifier Notifier
	cfg      config.ReportingConfig
	logger   *zap.Logger
}

// NewScheduler creates a scheduler firing in loc. notifier may be nil, in
// which case the weekly job is not registered.
func NewScheduler(cfg config.ReportingConfig, loc *time.Location, reporter Reporter, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reporter: reporter,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.DailyCronSchedule, s.job("daily snapshot", s.RunDailySnapshot)); err != nil {
		return fmt.Errorf("failed to schedule daily snapshot: %w", err)
	}

	if s.notifier != nil {
		if _, err := s.cron.AddFunc(s.cfg.WeeklyCronSchedule, s.job("weekly report", s.RunWeeklyReport)); err != nil {
			return fmt.Errorf("failed to schedule weekly report: %w", err)
		}
	} else {
		s.logger.Info("weekly report disabled, no notifier configured")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) job(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if err := run(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job finished", zap.String("job", name))
	}
}

// RunDailySnapshot stores today's summary.
func (s *Scheduler) RunDailySnapshot(ctx context.Context) error {
	if _, err := s.reporter.Snapshot(ctx, daterange.Today); err != nil {
		return fmt.Errorf("failed to store daily snapshot: %w", err)
	}
	return nil
}

// RunWeeklyReport sends the last seven days summary.
func (s *Scheduler) RunWeeklyReport(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}
	report, err := s.reporter.WeeklyReport(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate weekly report: %w", err)
	}
	if err := s.notifier.Notify(ctx, report); err != nil {
		return fmt.Errorf("failed to send weekly report: %w", err)
	}
	return nil
}
