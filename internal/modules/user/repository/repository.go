package repository

import (
	"context"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByNIK(ctx context.Context, nik string) (*entity.User, error)
	FindAll(ctx context.Context, offset, limit int) ([]*entity.User, int64, error)
	Update(ctx context.Context, user *entity.User) error
	Verify(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return database.Conn(ctx, r.db).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := database.Conn(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := database.Conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByNIK(ctx context.Context, nik string) (*entity.User, error) {
	var user entity.User
	if err := database.Conn(ctx, r.db).Where("nik = ?", nik).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, offset, limit int) ([]*entity.User, int64, error) {
	var (
		users []*entity.User
		total int64
	)

	db := database.Conn(ctx, r.db).Model(&entity.User{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at asc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update writes the profile columns. Role and verification are left alone.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return database.Conn(ctx, r.db).Model(user).
		Select("name", "email", "address", "avatar", "password_hash").
		Updates(user).Error
}

func (r *userRepository) Verify(ctx context.Context, id uuid.UUID) error {
	result := database.Conn(ctx, r.db).Model(&entity.User{}).Where("id = ?", id).Update("is_verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := database.Conn(ctx, r.db).Delete(&entity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
