package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/taskboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormKVRepository is a GORM implementation of KVRepository backed by the
// kv_entries table
type GormKVRepository struct {
	db *gorm.DB
}

// NewGormKVRepository creates a new KVRepository on top of db
func NewGormKVRepository(db *gorm.DB) *GormKVRepository {
	return &GormKVRepository{db: db}
}

// Get finds the document stored under key
func (r *GormKVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var entry models.KVEntry
	if err := r.db.WithContext(ctx).Where("storage_key = ?", key).Take(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

// Set upserts the document stored under key
func (r *GormKVRepository) Set(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntry{
		Key:   key,
		Value: string(value),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes the document stored under key
func (r *GormKVRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
