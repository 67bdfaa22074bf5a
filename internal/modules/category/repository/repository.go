package repository

import (
	"context"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindAll(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return database.Conn(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	if err := database.Conn(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	if err := database.Conn(ctx, r.db).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return database.Conn(ctx, r.db).Model(category).Update("name", category.Name).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.Conn(ctx, r.db).Delete(&entity.Category{}, "id = ?", id).Error
}

// IsReferenced reports whether any complaint, soft-deleted or not, uses the category.
func (r *categoryRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entity.Complaint{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
