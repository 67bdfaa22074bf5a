package bootstrap

import (
	"errors"

	"anoa.com/complainthub/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.AdminFeedback{},
		&entity.Complaint{},
		&entity.TrackingStatus{},
		&entity.Attachment{},
		&entity.Notification{},
	)
}

type AdminSeed struct {
	Email    string
	Password string
	NIK      string
}

// SeedAdmin creates the first verified admin account. It is a no-op when the
// email already exists or no password is configured.
func SeedAdmin(db *gorm.DB, seed AdminSeed, log *zap.Logger) error {
	if seed.Password == "" {
		log.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", seed.Email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Debug("admin user already exists, skipping seed", zap.String("email", seed.Email))
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		NIK:          seed.NIK,
		Name:         "Administrator",
		Email:        seed.Email,
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleAdmin,
		IsVerified:   true,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Info("admin user seeded", zap.String("email", seed.Email))
	return nil
}

var defaultCategories = []string{
	"Infrastruktur",
	"Kebersihan",
	"Keamanan",
	"Pelayanan Publik",
	"Lainnya",
}

func SeedCategories(db *gorm.DB, log *zap.Logger) error {
	seeded := 0
	for _, name := range defaultCategories {
		var category entity.Category
		err := db.Where("name = ?", name).First(&category).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := db.Create(&entity.Category{Name: name}).Error; err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		log.Info("default categories seeded", zap.Int("count", seeded))
	}
	return nil
}
