package repository

import (
	"context"
	"time"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *entity.Attachment) error
	Commit(ctx context.Context, path, ownerType string, ownerID uuid.UUID) error
	Release(ctx context.Context, path, folder string) error
	ReleaseByOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]string, error)
	FindByState(ctx context.Context, state entity.AttachmentState, cutoff time.Time, limit int) ([]entity.Attachment, error)
	DeleteByPath(ctx context.Context, path string) error
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	return database.Conn(ctx, r.db).Create(attachment).Error
}

// Commit binds a staged file to its owner. Only pending rows can be committed.
func (r *attachmentRepository) Commit(ctx context.Context, path, ownerType string, ownerID uuid.UUID) error {
	res := database.Conn(ctx, r.db).Model(&entity.Attachment{}).
		Where("path = ? AND state = ?", path, entity.AttachmentPending).
		Updates(map[string]interface{}{
			"state":      entity.AttachmentCommitted,
			"owner_type": ownerType,
			"owner_id":   ownerID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Release marks a file as no longer referenced. Files that predate the
// registry get a released row so the purge and sweep can find them.
func (r *attachmentRepository) Release(ctx context.Context, path, folder string) error {
	db := database.Conn(ctx, r.db)
	res := db.Model(&entity.Attachment{}).
		Where("path = ?", path).
		Update("state", entity.AttachmentReleased)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return db.Create(&entity.Attachment{
		Path:   path,
		Folder: folder,
		State:  entity.AttachmentReleased,
	}).Error
}

func (r *attachmentRepository) ReleaseByOwner(ctx context.Context, ownerType string, ownerID uuid.UUID) ([]string, error) {
	db := database.Conn(ctx, r.db)

	var paths []string
	if err := db.Model(&entity.Attachment{}).
		Where("owner_type = ? AND owner_id = ? AND state = ?", ownerType, ownerID, entity.AttachmentCommitted).
		Pluck("path", &paths).Error; err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	err := db.Model(&entity.Attachment{}).
		Where("path IN ?", paths).
		Update("state", entity.AttachmentReleased).Error
	return paths, err
}

func (r *attachmentRepository) FindByState(ctx context.Context, state entity.AttachmentState, cutoff time.Time, limit int) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := database.Conn(ctx, r.db).
		Where("state = ? AND updated_at < ?", state, cutoff).
		Order("updated_at asc").
		Limit(limit).
		Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) DeleteByPath(ctx context.Context, path string) error {
	return database.Conn(ctx, r.db).Where("path = ?", path).Delete(&entity.Attachment{}).Error
}
