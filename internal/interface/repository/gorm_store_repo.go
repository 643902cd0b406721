package repository

import (
	"context"
	"errors"
	"time"

	"harvestsync-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStoreRepository implements the KeyValueStore interface on PostgreSQL
type GormStoreRepository struct {
	db *gorm.DB
}

// KVEntry GORM model for database mapping
type KVEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the default table name
func (KVEntry) TableName() string {
	return "kv_entries"
}

// NewGormStoreRepository creates a new GORM key/value store repository
func NewGormStoreRepository(db *gorm.DB) (repository.KeyValueStore, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, err
	}
	return &GormStoreRepository{db: db}, nil
}

// Get reads the value stored under key
func (r *GormStoreRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry KVEntry
	result := r.db.WithContext(ctx).Where("key = ?", key).First(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if result.Error != nil {
		return "", false, result.Error
	}
	return entry.Value, true, nil
}

// Set writes value under key, replacing any previous value
func (r *GormStoreRepository) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Remove deletes the given keys; absent keys are not an error
func (r *GormStoreRepository) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("key IN ?", keys).Delete(&KVEntry{}).Error
}
