package repository

import (
	"context"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *entity.Complaint) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Complaint, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Complaint, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*entity.Complaint, error)
	FindAll(ctx context.Context, offset, limit int) ([]entity.Complaint, int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Complaint, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Complaint, error)
	ExistsBySlug(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error)
	Update(ctx context.Context, complaint *entity.Complaint) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus, feedbackID *uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SoftDeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *entity.Complaint) error {
	return database.Conn(ctx, r.db).Create(complaint).Error
}

func (r *complaintRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	var complaint entity.Complaint
	if err := database.Conn(ctx, r.db).First(&complaint, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *complaintRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	var complaint entity.Complaint
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) FindDetail(ctx context.Context, id uuid.UUID) (*entity.Complaint, error) {
	var complaint entity.Complaint
	err := database.Conn(ctx, r.db).
		Preload("Category").
		Preload("AdminFeedback").
		Preload("TrackingStatuses", func(db *gorm.DB) *gorm.DB {
			// ids are v7, so they break ties between rows of one transaction
			return db.Order("created_at desc, id desc")
		}).
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) FindAll(ctx context.Context, offset, limit int) ([]entity.Complaint, int64, error) {
	var complaints []entity.Complaint
	var total int64

	db := database.Conn(ctx, r.db)
	if err := db.Model(&entity.Complaint{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Category").
		Order("updated_at desc").
		Offset(offset).
		Limit(limit).
		Find(&complaints).Error
	return complaints, total, err
}

// FindByIDs keeps the order of ids; missing rows are skipped.
func (r *complaintRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Complaint, error) {
	if len(ids) == 0 {
		return []entity.Complaint{}, nil
	}

	var rows []entity.Complaint
	if err := database.Conn(ctx, r.db).Preload("Category").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]entity.Complaint, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	complaints := make([]entity.Complaint, 0, len(rows))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			complaints = append(complaints, c)
		}
	}
	return complaints, nil
}

func (r *complaintRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Complaint, error) {
	var complaints []entity.Complaint
	err := database.Conn(ctx, r.db).
		Preload("Category").
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) ExistsBySlug(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Complaint{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *complaintRepository) Update(ctx context.Context, complaint *entity.Complaint) error {
	return database.Conn(ctx, r.db).Model(complaint).
		Select("title", "slug", "content", "date_event", "location", "evidence", "category_id").
		Updates(complaint).Error
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ComplaintStatus, feedbackID *uuid.UUID) error {
	updates := map[string]interface{}{"current_status": status}
	if feedbackID != nil {
		updates["admin_feedback_id"] = *feedbackID
	}
	return database.Conn(ctx, r.db).Model(&entity.Complaint{}).Where("id = ?", id).Updates(updates).Error
}

func (r *complaintRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Model(&entity.Complaint{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *complaintRepository) SoftDeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := database.Conn(ctx, r.db).Model(&entity.Complaint{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Update("is_deleted", true)
	return res.RowsAffected, res.Error
}

// Delete removes the complaint with its tracking ledger and feedback.
func (r *complaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := database.Conn(ctx, r.db)
	if err := db.Where("complaint_id = ?", id).Delete(&entity.TrackingStatus{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&entity.Complaint{}, "id = ?", id).Error; err != nil {
		return err
	}
	return db.Where("complaint_id = ?", id).Delete(&entity.AdminFeedback{}).Error
}
