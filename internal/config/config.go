package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	LogLevel       string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPass      string
	DBName      string
	DBPort      string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string
	JWTTTL    time.Duration

	StorageDriver string
	UploadDir     string
	MaxUploadSize int64

	CloudinaryURL       string
	CloudinaryCloudName string

	RateLimitComplaint time.Duration
	OrphanSweepCron    string
	OrphanGrace        time.Duration

	AdminEmail    string
	AdminPassword string
	AdminNIK      string
}

const (
	StorageLocal      = "local"
	StorageCloudinary = "cloudinary"
)

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		LogLevel:       os.Getenv("LOG_LEVEL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPass:      os.Getenv("DB_PASS"),
		DBName:      getEnv("DB_NAME", "complainthub"),
		DBPort:      getEnv("DB_PORT", "5432"),

		RedisURL: os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		StorageDriver: getEnv("STORAGE_DRIVER", StorageLocal),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),

		CloudinaryURL:       os.Getenv("CLOUDINARY_URL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),

		OrphanSweepCron: getEnv("ORPHAN_SWEEP_CRON", "@every 12h"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@complainthub.local"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminNIK:      getEnv("ADMIN_NIK", "0000000000000000"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StorageDriver != StorageLocal && cfg.StorageDriver != StorageCloudinary {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	var err error
	cfg.JWTTTL, err = parseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.RateLimitComplaint, err = parseDuration(getEnv("RATE_LIMIT_COMPLAINT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_COMPLAINT: %w", err)
	}
	cfg.OrphanGrace, err = parseDuration(getEnv("ORPHAN_GRACE", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_GRACE: %w", err)
	}
	cfg.MaxUploadSize, err = strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE", "2097152"), 10, 64)
	if err != nil || cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE: %q", os.Getenv("MAX_UPLOAD_SIZE"))
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
