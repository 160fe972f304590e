package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/softionyx/site/internal/config"
	"github.com/softionyx/site/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectRetryWindow = 30 * time.Second

// Connect opens the PostgreSQL pool, retrying with exponential backoff while
// the server comes up, and optionally runs auto-migration.
func Connect(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectRetryWindow

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		opened, err := openDB(cfg, resolveLogLevel(cfg))
		if err != nil {
			log.Warn("database not ready", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		db = opened
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if cfg.AutoMigrate() {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return db, nil
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	if cfg.IsDev() {
		return logger.Info
	}
	return logger.Warn
}

func openDB(cfg *config.AppConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), Options(logLevel))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Options is the gorm configuration shared by every dialect. Unique-key
// violations surface as gorm.ErrDuplicatedKey.
func Options(logLevel logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
