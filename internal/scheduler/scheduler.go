package scheduler

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"taskdesk/internal/config"
	"taskdesk/internal/worker"
)

// Scheduler turns the configured cadence into queued background jobs. The
// daily reminder fires at a local wall-clock time; the SLA sweep and cache
// warmup run on fixed intervals.
type Scheduler struct {
	cron   *cron.Cron
	queue  *worker.JobQueue
	cfg    config.SchedulerConfig
	logger *zap.Logger
}

func New(queue *worker.JobQueue, cfg config.SchedulerConfig, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		queue:  queue,
		cfg:    cfg,
		logger: logger,
	}
}

// buildDailySpec converts an "HH:MM" wall-clock time into a cron spec.
func buildDailySpec(hhmm string) (string, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("bad reminder time %q, expected HH:MM", hhmm)
	}
	return fmt.Sprintf("%s %s * * *", parts[1], parts[0]), nil
}

func (s *Scheduler) Start() error {
	reminderSpec, err := buildDailySpec(s.cfg.ReminderTime)
	if err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(reminderSpec, func() {
		s.enqueue(worker.JobTypeTaskReminder, nil)
	}); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}

	slaSpec := fmt.Sprintf("@every %s", s.cfg.SLASweepEvery)
	if _, err := s.cron.AddFunc(slaSpec, func() {
		s.enqueue(worker.JobTypeTicketSLACheck, map[string]interface{}{
			"sla_hours": s.cfg.SLAHours,
		})
	}); err != nil {
		return fmt.Errorf("failed to schedule SLA sweep: %w", err)
	}

	warmupSpec := fmt.Sprintf("@every %s", s.cfg.WarmupInterval)
	if _, err := s.cron.AddFunc(warmupSpec, func() {
		s.enqueue(worker.JobTypeCacheWarmup, nil)
	}); err != nil {
		return fmt.Errorf("failed to schedule cache warmup: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("reminder_time", s.cfg.ReminderTime),
		zap.Duration("sla_sweep_every", s.cfg.SLASweepEvery),
		zap.Duration("warmup_interval", s.cfg.WarmupInterval))
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) enqueue(jobType worker.JobType, payload map[string]interface{}) {
	if err := s.queue.Enqueue(worker.DefaultQueue, jobType, payload); err != nil {
		s.logger.Error("failed to enqueue scheduled job",
			zap.String("type", string(jobType)),
			zap.Error(err))
	}
}
