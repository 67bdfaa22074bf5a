package scheduler

import (
	"context"
	"sync"

	attachmentDto "anoa.com/complainthub/internal/modules/attachment/dto"
	attachmentService "anoa.com/complainthub/internal/modules/attachment/service"
	"go.uber.org/zap"
)

// Job is a unit of background work.
type Job interface {
	// GetName identifies the job in logs and metrics.
	GetName() string

	// GetSchedule returns a cron spec such as "@every 12h". An empty spec
	// registers the job for on-demand runs only.
	GetSchedule() string

	Execute(ctx context.Context) error
}

const OrphanSweepJobName = "orphan_sweep"

// OrphanSweepJob deletes staged files that were never committed and retries
// released files whose purge failed.
type OrphanSweepJob struct {
	attachments attachmentService.AttachmentService
	schedule    string
	log         *zap.Logger

	mu   sync.Mutex
	last *attachmentDto.SweepResponse
}

func NewOrphanSweepJob(attachments attachmentService.AttachmentService, schedule string, log *zap.Logger) *OrphanSweepJob {
	return &OrphanSweepJob{attachments: attachments, schedule: schedule, log: log}
}

func (j *OrphanSweepJob) GetName() string { return OrphanSweepJobName }

func (j *OrphanSweepJob) GetSchedule() string { return j.schedule }

func (j *OrphanSweepJob) Execute(ctx context.Context) error {
	res, err := j.attachments.CleanupOrphans(ctx)
	if err != nil {
		return err
	}

	j.mu.Lock()
	j.last = res
	j.mu.Unlock()

	j.log.Info("orphan sweep finished", zap.Int("deleted", res.Deleted), zap.Int("failed", res.Failed))
	return nil
}

// LastResult returns the counts of the most recent successful run, or nil.
func (j *OrphanSweepJob) LastResult() *attachmentDto.SweepResponse {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last
}
