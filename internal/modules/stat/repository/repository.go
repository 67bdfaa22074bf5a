package repository

import (
	"context"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryCount is one row of the complaints-per-category aggregate.
type CategoryCount struct {
	ID    uuid.UUID
	Name  string
	Total int64
}

type StatRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountComplaints(ctx context.Context) (int64, error)
	CountFeedbacks(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[entity.ComplaintStatus]int64, error)
	CountPerCategory(ctx context.Context) ([]CategoryCount, error)
}

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db}
}

func (r *statRepository) count(ctx context.Context, model interface{}) (int64, error) {
	var total int64
	if err := database.Conn(ctx, r.db).Model(model).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *statRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.User{})
}

func (r *statRepository) CountComplaints(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.Complaint{})
}

func (r *statRepository) CountFeedbacks(ctx context.Context) (int64, error) {
	return r.count(ctx, &entity.AdminFeedback{})
}

func (r *statRepository) CountByStatus(ctx context.Context) (map[entity.ComplaintStatus]int64, error) {
	var rows []struct {
		CurrentStatus entity.ComplaintStatus
		Total         int64
	}
	err := database.Conn(ctx, r.db).Model(&entity.Complaint{}).
		Select("current_status, count(*) AS total").
		Group("current_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.ComplaintStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.CurrentStatus] = row.Total
	}
	return counts, nil
}

// CountPerCategory includes categories without complaints.
func (r *statRepository) CountPerCategory(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := database.Conn(ctx, r.db).Table("categories").
		Select("categories.id, categories.name, count(complaints.id) AS total").
		Joins("LEFT JOIN complaints ON complaints.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
