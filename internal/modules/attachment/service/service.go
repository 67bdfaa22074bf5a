package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/internal/modules/attachment/dto"
	"anoa.com/complainthub/internal/modules/attachment/repository"
	"anoa.com/complainthub/pkg/apperror"
	commonDto "anoa.com/complainthub/pkg/dto"
	"anoa.com/complainthub/pkg/metrics"
	"anoa.com/complainthub/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	FolderEvidence = "evidences"
	FolderAvatar   = "avatars"
	FolderFeedback = "feedbacks"

	sweepBatch = 200
)

// AttachmentService moves files through pending -> committed -> released.
// Stage writes the file, Commit and Release run inside the owner's
// transaction, Purge removes released files once that transaction is done.
type AttachmentService interface {
	Stage(ctx context.Context, file *commonDto.UploadFile, folder string) (*entity.Attachment, error)
	Commit(ctx context.Context, staged *entity.Attachment, ownerType string, ownerID uuid.UUID) error
	Release(ctx context.Context, path, folder string) error
	ReleaseOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]string, error)
	Purge(ctx context.Context, paths ...string)
	Discard(ctx context.Context, staged *entity.Attachment)
	CleanupOrphans(ctx context.Context) (*dto.SweepResponse, error)
}

type Config struct {
	MaxSize int64
	Grace   time.Duration
}

type attachmentService struct {
	repo    repository.AttachmentRepository
	storage storage.FileStorage
	log     *zap.Logger
	cfg     Config
	now     func() time.Time
}

func NewAttachmentService(repo repository.AttachmentRepository, fileStorage storage.FileStorage, log *zap.Logger, cfg Config) AttachmentService {
	return &attachmentService{
		repo:    repo,
		storage: fileStorage,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *attachmentService) Stage(ctx context.Context, file *commonDto.UploadFile, folder string) (*entity.Attachment, error) {
	if file == nil || file.Reader == nil {
		return nil, apperror.BadRequest("File is required")
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return nil, apperror.BadRequest(fmt.Sprintf("File size exceeds %dMB limit", s.cfg.MaxSize>>20))
	}

	path, err := s.storage.Save(ctx, file.Reader, folder, file.FileName)
	if err != nil {
		return nil, err
	}

	attachment := &entity.Attachment{
		Path:        path,
		Folder:      folder,
		ContentType: file.ContentType,
		Size:        file.Size,
		State:       entity.AttachmentPending,
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		s.deleteFile(ctx, path)
		return nil, err
	}

	return attachment, nil
}

func (s *attachmentService) Commit(ctx context.Context, staged *entity.Attachment, ownerType string, ownerID uuid.UUID) error {
	if staged == nil {
		return nil
	}
	return s.repo.Commit(ctx, staged.Path, ownerType, ownerID)
}

func (s *attachmentService) Release(ctx context.Context, path, folder string) error {
	if path == "" {
		return nil
	}
	return s.repo.Release(ctx, path, folder)
}

func (s *attachmentService) ReleaseOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]string, error) {
	return s.repo.ReleaseByOwner(ctx, ownerType, ownerID)
}

// Purge deletes released files. Failures are left for the sweeper.
func (s *attachmentService) Purge(ctx context.Context, paths ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := s.storage.Delete(ctx, path); err != nil {
			s.log.Warn("failed to purge released file", zap.String("path", path), zap.Error(err))
			continue
		}
		if err := s.repo.DeleteByPath(ctx, path); err != nil {
			s.log.Warn("failed to drop attachment row", zap.String("path", path), zap.Error(err))
		}
	}
}

// Discard undoes Stage after the owning write failed.
func (s *attachmentService) Discard(ctx context.Context, staged *entity.Attachment) {
	if staged == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if !s.deleteFile(ctx, staged.Path) {
		return
	}
	if err := s.repo.DeleteByPath(ctx, staged.Path); err != nil {
		s.log.Warn("failed to drop staged attachment row", zap.String("path", staged.Path), zap.Error(err))
	}
}

// CleanupOrphans removes pending files older than the grace period and any
// released file whose purge did not finish.
func (s *attachmentService) CleanupOrphans(ctx context.Context) (*dto.SweepResponse, error) {
	res := &dto.SweepResponse{}
	now := s.now()

	pending, err := s.repo.FindByState(ctx, entity.AttachmentPending, now.Add(-s.cfg.Grace), sweepBatch)
	if err != nil {
		return nil, err
	}
	released, err := s.repo.FindByState(ctx, entity.AttachmentReleased, now, sweepBatch)
	if err != nil {
		return nil, err
	}

	for _, orphan := range append(pending, released...) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !s.deleteFile(ctx, orphan.Path) {
			res.Failed++
			continue
		}
		if err := s.repo.DeleteByPath(ctx, orphan.Path); err != nil {
			s.log.Warn("failed to drop orphan attachment row", zap.String("path", orphan.Path), zap.Error(err))
			res.Failed++
			continue
		}
		res.Deleted++
	}

	metrics.RecordSweep("deleted", res.Deleted)
	metrics.RecordSweep("failed", res.Failed)
	return res, nil
}

func (s *attachmentService) deleteFile(ctx context.Context, path string) bool {
	if err := s.storage.Delete(ctx, path); err != nil {
		if errors.Is(err, context.Canceled) {
			return false
		}
		s.log.Warn("failed to delete file", zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}
