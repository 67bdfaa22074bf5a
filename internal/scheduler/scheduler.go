package scheduler

import (
	"context"
	"fmt"
	"time"

	"anoa.com/complainthub/pkg/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs registered jobs on their cron schedule. A job never overlaps
// with itself; a run that is still going when the next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	log     *zap.Logger
	timeout time.Duration
}

func New(log *zap.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		jobs:    make([]Job, 0),
		log:     log,
		timeout: timeout,
	}
}

func (s *Scheduler) Register(job Job) error {
	s.jobs = append(s.jobs, job)

	schedule := job.GetSchedule()
	if schedule == "" {
		s.log.Info("job registered for on-demand runs", zap.String("job", job.GetName()))
		return nil
	}

	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_ = s.run(ctx, job)
	}))
	if _, err := s.cron.AddJob(schedule, wrapped); err != nil {
		return fmt.Errorf("schedule %s: %w", job.GetName(), err)
	}

	s.log.Info("job scheduled", zap.String("job", job.GetName()), zap.String("schedule", schedule))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Strings("jobs", s.Registered()))
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out with jobs still running")
	}
	s.log.Info("scheduler stopped")
}

// RunByName executes a registered job immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.GetName() == name {
			return s.run(ctx, job)
		}
	}
	return fmt.Errorf("job %q is not registered", name)
}

func (s *Scheduler) Registered() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.GetName()
	}
	return names
}

func (s *Scheduler) run(ctx context.Context, job Job) error {
	start := time.Now()
	err := job.Execute(ctx)
	metrics.RecordJob(job.GetName(), err == nil, time.Since(start))

	if err != nil {
		s.log.Error("job failed", zap.String("job", job.GetName()), zap.Error(err))
		return err
	}
	s.log.Info("job completed", zap.String("job", job.GetName()), zap.Duration("took", time.Since(start)))
	return nil
}
