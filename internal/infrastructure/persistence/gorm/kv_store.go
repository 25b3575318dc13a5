package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
)

// KVStore is an interfaces.KVStore backed by a kv_entries table.
type KVStore struct {
	db      *gorm.DB
	cleanup func()
}

var _ interfaces.KVStore = (*KVStore)(nil)

// NewKVStore creates a store on db. cleanup, if not nil, runs on Close.
func NewKVStore(db *gorm.DB, cleanup func()) *KVStore {
	return &KVStore{db: db, cleanup: cleanup}
}

// Get returns the value stored under key.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry KVEntryModel
	err := s.db.WithContext(ctx).Where("kv_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set overwrites the value stored under key.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	entry := KVEntryModel{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&KVEntryModel{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *KVStore) Close() error {
	if s.cleanup != nil {
		s.cleanup()
	}
	return nil
}
