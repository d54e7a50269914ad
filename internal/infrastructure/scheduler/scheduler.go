package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/catalog/backend/internal/infrastructure/logger"
	"github.com/catalog/backend/internal/infrastructure/metrics"
)

// JobFunc is one schedulable unit of work
type JobFunc func(ctx context.Context) error

// Scheduler runs registered jobs on cron schedules. Every trigger first
// takes the job's run lock; when another instance already holds it the
// trigger is skipped, so overlapping runs of the same job cannot happen.
type Scheduler struct {
	cron   *cron.Cron
	lock   RunLock
	logger *zap.Logger
}

// New creates a scheduler using standard five-field cron expressions
func New(lock RunLock, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		lock:   lock,
		logger: log.Named("scheduler"),
	}
}

// Register adds a job under the given cron spec. The lease TTL caps how
// long a crashed run can keep other instances from taking over.
func (s *Scheduler) Register(name, spec string, ttl time.Duration, run JobFunc) error {
	if _, err := s.cron.AddFunc(spec, func() { s.trigger(name, ttl, run) }); err != nil {
		return fmt.Errorf("register %s (%q): %w", name, spec, err)
	}
	s.logger.Info("Job registered",
		zap.String("job", name),
		zap.String("spec", spec),
		zap.Duration("lock_ttl", ttl),
	)
	return nil
}

func (s *Scheduler) trigger(name string, ttl time.Duration, run JobFunc) {
	ctx := context.Background()

	acquired, err := s.lock.Acquire(ctx, name, ttl)
	if err != nil {
		s.logger.Error("Run lock unavailable", zap.String("job", name), zap.Error(err))
		return
	}
	if !acquired {
		metrics.RecordLockSkipped(name)
		s.logger.Info("Run skipped, lock held by another run", zap.String("job", name))
		return
	}
	defer func() {
		if err := s.lock.Release(ctx, name); err != nil {
			s.logger.Warn("Run lock release failed", zap.String("job", name), zap.Error(err))
		}
	}()

	ctx, log := logger.WithRun(ctx, s.logger, name)
	started := time.Now()

	if err := run(ctx); err != nil {
		metrics.RecordRun(name, "", "error", time.Since(started))
		log.Error("Scheduled run failed", zap.Error(err))
		return
	}
	metrics.RecordRun(name, "", "success", time.Since(started))
}

// Start begins triggering registered jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops triggering and waits for running jobs, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Scheduler stopping")
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
