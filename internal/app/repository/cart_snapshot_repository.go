package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const snapshotOpTimeout = 5 * time.Second

// CartSnapshotRepository stores serialized carts in the cart_snapshots table.
// It satisfies cart.KeyValueStorage.
type CartSnapshotRepository struct {
	db *gorm.DB
}

func NewCartSnapshotRepository(db *gorm.DB) *CartSnapshotRepository {
	return &CartSnapshotRepository{db: db}
}

func (r *CartSnapshotRepository) GetItem(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotOpTimeout)
	defer cancel()

	var snapshot model.CartSnapshot
	err := r.db.WithContext(ctx).Where("cart_key = ?", key).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		logger.Error("Failed to load cart snapshot", err, map[string]interface{}{
			"key": key,
		})
		return "", false, err
	}
	return snapshot.Payload, true, nil
}

// SetItem upserts the payload for key
func (r *CartSnapshotRepository) SetItem(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotOpTimeout)
	defer cancel()

	snapshot := model.CartSnapshot{
		Key:     key,
		Payload: value,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snapshot).Error
	if err != nil {
		logger.Error("Failed to save cart snapshot", err, map[string]interface{}{
			"key": key,
		})
		return err
	}

	logger.Debug("Cart snapshot saved", map[string]interface{}{
		"key":   key,
		"bytes": len(value),
	})
	return nil
}

// DeleteOlderThan removes snapshots untouched since cutoff and returns how many went
func (r *CartSnapshotRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("updated_at < ?", cutoff).Delete(&model.CartSnapshot{})
	if result.Error != nil {
		logger.Error("Failed to delete stale cart snapshots", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
