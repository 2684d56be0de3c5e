package db

import (
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table the service owns
func Models() []interface{} {
	return []interface{}{
		&model.Product{},
		&model.CartSnapshot{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs migrations against an explicit handle
func MigrateDB(gdb *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := gdb.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
