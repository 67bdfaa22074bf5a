package service

import (
	"context"
	"errors"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/internal/modules/category/dto"
	"anoa.com/complainthub/internal/modules/category/repository"
	"anoa.com/complainthub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

// CreateCategory relies on the unique index for duplicate names; the central
// error handler turns the violation into 400 "name must be unique".
func (s *categoryService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category := &entity.Category{Name: req.Name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	res := dto.ToCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, dto.ToCategoryResponse(c))
	}
	return res, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	res := dto.ToCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	res := dto.ToCategoryResponse(category)
	return &res, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	referenced, err := s.repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return apperror.Conflict("Category is still used by complaints")
	}

	return s.repo.Delete(ctx, id)
}

func (s *categoryService) find(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Category not found")
		}
		return nil, err
	}
	return category, nil
}
