package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/groundviewhq/groundview/internal/config"
	"github.com/groundviewhq/groundview/internal/domain"
	"github.com/groundviewhq/groundview/internal/logger"
)

// InitDB opens the relational store and runs migrations.
func InitDB(cfg *config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	switch cfg.Driver {
	case "postgres":
		log.WithField("driver", "postgres").Info("initializing database")
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormConfig)
	case "sqlite":
		log.WithField("driver", "sqlite").Info("initializing database")
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	default:
		log.WithField("driver", cfg.Driver).Warn("unknown driver, defaulting to sqlite")
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.AutoMigrate {
		models := []interface{}{
			&domain.Image{},
			&domain.Collection{},
			&domain.CollectionItem{},
		}
		// The object table carries a pgvector column; it only exists on
		// postgres. SQLite deployments serve image search without
		// object-anchor queries.
		if cfg.Driver == "postgres" {
			models = append(models, &domain.DetectedObject{})
		}
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}
