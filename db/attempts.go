package db

import (
	"context"

	"gorm.io/gorm"

	"campus-attendance/model"
)

// AttemptLog 标记出勤尝试的终态记录
type AttemptLog struct {
	db *gorm.DB
}

func NewAttemptLog(db *gorm.DB) *AttemptLog {
	return &AttemptLog{db: db}
}

func (l *AttemptLog) RecordAttempt(ctx context.Context, attempt model.GateAttempt) error {
	return l.db.WithContext(ctx).Create(&attempt).Error
}

// Recent 最近 limit 条记录，最新的在前
func (l *AttemptLog) Recent(ctx context.Context, limit int) ([]model.GateAttempt, error) {
	var rows []model.GateAttempt
	err := l.db.WithContext(ctx).Order("finished_at desc").Limit(limit).Find(&rows).Error
	return rows, err
}
