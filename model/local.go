package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Setting 本地持久化的键值对 (authToken, regno)
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// GateAttempt 一次标记出勤尝试的终态记录
type GateAttempt struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Outcome    string    `json:"outcome" gorm:"index;not null"`
	Message    string    `json:"message"`
	Distance   float64   `json:"distance"` // 最后一个样本到校园的距离 (米)，无样本时为 -1
	Samples    int       `json:"samples"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at" gorm:"index"`
}

// RosterEntry 学生名册的本地缓存
type RosterEntry struct {
	RegisterNumber string         `gorm:"primaryKey;size:64"`
	StudentID      string         `gorm:"size:64"`
	Name           string         `gorm:"not null"`
	Email          string         `gorm:"size:255"`
	Department     string         `gorm:"index:idx_roster_class"`
	Year           string         `gorm:"index:idx_roster_class"`
	Section        string         `gorm:"index:idx_roster_class"`
	PresentDates   pq.StringArray `gorm:"type:text[]"`
	Raw            datatypes.JSON // 后端原始记录，恢复 attendance 明细用
	RefreshedAt    time.Time      `gorm:"index"`
}
