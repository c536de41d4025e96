package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"campus-attendance/model"
)

var DB *gorm.DB

// InitDB 连接 PostgreSQL 并自动迁移本地状态表
func InitDB(dsn string) (*gorm.DB, error) {
	// 带重试的数据库连接 (Docker 启动时数据库可能还没准备好)
	var err error
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: NewGormLogger()})
		if err == nil {
			break
		}
		log.Printf("等待数据库就绪... (%d/%d): %v", i+1, maxRetries, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 自动迁移模式 (自动创建表结构)
	if err := DB.AutoMigrate(&model.Setting{}, &model.GateAttempt{}, &model.RosterEntry{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	log.Println("数据库连接并初始化成功！")
	return DB, nil
}

// Close 关闭连接池
func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
