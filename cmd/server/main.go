package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/complainthub/internal/bootstrap"
	"anoa.com/complainthub/internal/config"
	"anoa.com/complainthub/internal/server"
	"anoa.com/complainthub/pkg/database"
	"anoa.com/complainthub/pkg/logger"
	"anoa.com/complainthub/pkg/storage"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()
	zap.ReplaceGlobals(logg)

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	db, err := database.Connect(database.Config{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		Debug:    !cfg.IsProduction(),
	})
	if err != nil {
		return err
	}

	if err := bootstrap.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := bootstrap.SeedCategories(db, logg); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := bootstrap.SeedAdmin(db, bootstrap.AdminSeed{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		NIK:      cfg.AdminNIK,
	}, logg); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	rdb := connectRedis(cfg.RedisURL, logg)
	if rdb != nil {
		defer rdb.Close()
	}

	var search meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		search = meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	} else {
		logg.Warn("MEILISEARCH_HOST not set, complaint search disabled")
	}

	files, err := newFileStorage(cfg)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(server.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Search:  search,
		Storage: files,
		Log:     logg,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logg.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// connectRedis returns nil when redis is not configured or unreachable.
func connectRedis(url string, logg *zap.Logger) *redis.Client {
	if url == "" {
		logg.Warn("REDIS_URL not set, cooldowns, locks, logout and live notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		logg.Warn("invalid REDIS_URL, continuing without redis", zap.Error(err))
		return nil
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logg.Warn("redis unreachable, continuing without redis", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func newFileStorage(cfg *config.Config) (storage.FileStorage, error) {
	if cfg.StorageDriver == config.StorageCloudinary {
		return storage.NewCloudinaryStorage(storage.CloudinaryConfig{
			URL:       cfg.CloudinaryURL,
			CloudName: cfg.CloudinaryCloudName,
		})
	}
	return storage.NewLocalStorage(cfg.UploadDir)
}
