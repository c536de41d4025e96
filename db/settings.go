package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-attendance/model"
	"campus-attendance/store"
)

// SettingStore 基于 settings 表的持久化键值存储
type SettingStore struct {
	db *gorm.DB
}

func NewSettingStore(db *gorm.DB) *SettingStore {
	return &SettingStore{db: db}
}

func (s *SettingStore) Get(ctx context.Context, key string) (string, error) {
	var row model.Setting
	err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *SettingStore) Set(ctx context.Context, key, value string) error {
	row := model.Setting{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *SettingStore) Delete(ctx context.Context, key string) error {
	res := s.db.WithContext(ctx).Delete(&model.Setting{}, "key = ?", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
