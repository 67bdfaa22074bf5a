package repository

import (
	"context"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackingRepository is the append-only status ledger. There is no update or
// delete; rows go away only with their complaint.
type TrackingRepository interface {
	Create(ctx context.Context, tracking *entity.TrackingStatus) error
	Exists(ctx context.Context, complaintID uuid.UUID, status entity.ComplaintStatus) (bool, error)
}

type trackingRepository struct {
	db *gorm.DB
}

func NewTrackingRepository(db *gorm.DB) TrackingRepository {
	return &trackingRepository{db: db}
}

func (r *trackingRepository) Create(ctx context.Context, tracking *entity.TrackingStatus) error {
	return database.Conn(ctx, r.db).Create(tracking).Error
}

func (r *trackingRepository) Exists(ctx context.Context, complaintID uuid.UUID, status entity.ComplaintStatus) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.TrackingStatus{}).
		Where("complaint_id = ? AND status = ?", complaintID, status).
		Count(&count).Error
	return count > 0, err
}
