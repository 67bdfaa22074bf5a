package repository

import (
	"context"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.AdminFeedback) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminFeedback, error)
	FindAll(ctx context.Context) ([]entity.AdminFeedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.AdminFeedback) error {
	return database.Conn(ctx, r.db).Create(feedback).Error
}

func (r *feedbackRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminFeedback, error) {
	var feedback entity.AdminFeedback
	if err := database.Conn(ctx, r.db).First(&feedback, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) FindAll(ctx context.Context) ([]entity.AdminFeedback, error) {
	var feedbacks []entity.AdminFeedback
	err := database.Conn(ctx, r.db).Order("created_at desc").Find(&feedbacks).Error
	return feedbacks, err
}
