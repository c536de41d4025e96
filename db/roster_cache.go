package db

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"campus-attendance/model"
)

// RosterCache 名册快照，每次保存整体替换
type RosterCache struct {
	db *gorm.DB
}

func NewRosterCache(db *gorm.DB) *RosterCache {
	return &RosterCache{db: db}
}

func (c *RosterCache) Save(ctx context.Context, students []model.Student, at time.Time) error {
	entries := make([]model.RosterEntry, 0, len(students))
	for _, s := range students {
		entry, err := toEntry(s, at)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.RosterEntry{}).Error; err != nil {
			return fmt.Errorf("清空名册缓存失败: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(entries, 100).Error; err != nil {
			return fmt.Errorf("写入名册缓存失败: %w", err)
		}
		return nil
	})
}

func (c *RosterCache) Load(ctx context.Context) ([]model.Student, error) {
	var entries []model.RosterEntry
	if err := c.db.WithContext(ctx).Order("register_number").Find(&entries).Error; err != nil {
		return nil, err
	}
	students := make([]model.Student, 0, len(entries))
	for _, e := range entries {
		students = append(students, fromEntry(e))
	}
	return students, nil
}

func toEntry(s model.Student, at time.Time) (model.RosterEntry, error) {
	raw, err := sonic.Marshal(s)
	if err != nil {
		return model.RosterEntry{}, fmt.Errorf("序列化学生 %s 失败: %w", s.RegisterNumber, err)
	}
	present := pq.StringArray{}
	for _, a := range s.Attendance {
		if a.IsPresent {
			present = append(present, a.Date)
		}
	}
	return model.RosterEntry{
		RegisterNumber: s.RegisterNumber,
		StudentID:      s.ID,
		Name:           s.Name,
		Email:          s.Email,
		Department:     s.Department,
		Year:           s.Year,
		Section:        s.Section,
		PresentDates:   present,
		Raw:            datatypes.JSON(raw),
		RefreshedAt:    at,
	}, nil
}

// fromEntry 优先用原始记录还原；原始记录损坏时用列数据拼出出勤日期
func fromEntry(e model.RosterEntry) model.Student {
	var s model.Student
	if len(e.Raw) > 0 && sonic.Unmarshal(e.Raw, &s) == nil {
		return s
	}
	s = model.Student{
		ID:             e.StudentID,
		Name:           e.Name,
		RegisterNumber: e.RegisterNumber,
		Email:          e.Email,
		Department:     e.Department,
		Year:           e.Year,
		Section:        e.Section,
	}
	for _, d := range e.PresentDates {
		s.Attendance = append(s.Attendance, model.AttendanceEntry{Date: d, IsPresent: true})
	}
	return s
}
