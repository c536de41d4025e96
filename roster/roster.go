// Package roster 员工端名册: 按班级过滤、今日出勤、近 15 天出勤记录
package roster

import (
	"strings"
	"time"

	"campus-attendance/model"
	"campus-attendance/utils"
)

// HistoryDays 学生详情页展示的天数
const HistoryDays = 15

// Class 员工登录时选择的班级，Section 为空表示全部分班
type Class struct {
	Department string `json:"department"`
	Year       string `json:"year"`
	Section    string `json:"section"`
}

// Matches 学生是否属于该班级
func (c Class) Matches(s model.Student) bool {
	return s.Department == c.Department &&
		s.Year == c.Year &&
		(c.Section == "" || s.Section == c.Section)
}

// Filter 在内存中过滤完整名册，保持原有顺序
func Filter(students []model.Student, c Class) []model.Student {
	out := make([]model.Student, 0, len(students))
	for _, s := range students {
		if c.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// PresentOn 学生在 day 所在日历日是否有出勤记录
func PresentOn(s model.Student, day time.Time) bool {
	for _, e := range s.Attendance {
		if e.IsPresent && utils.SameDay(e.Date, day) {
			return true
		}
	}
	return false
}

// Status 名册中一名学生的今日出勤
type Status struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	RegisterNumber string `json:"registerNumber"`
	Section        string `json:"section"`
	Present        bool   `json:"isPresent"`
}

// Today 每名学生今天是否出勤
func Today(students []model.Student, now time.Time) []Status {
	out := make([]Status, 0, len(students))
	for _, s := range students {
		out = append(out, Status{
			ID:             s.ID,
			Name:           s.Name,
			RegisterNumber: s.RegisterNumber,
			Section:        s.Section,
			Present:        PresentOn(s, now),
		})
	}
	return out
}

// Day 某一天的出勤
type Day struct {
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

// History 近 N 天出勤，最新的在前
type History struct {
	Days    []Day `json:"days"`
	Perfect bool  `json:"perfect"` // 每天都出勤
}

// HistoryOf 计算学生截至 now 的近 days 天出勤
func HistoryOf(s model.Student, now time.Time, days int) History {
	h := History{Days: make([]Day, 0, days), Perfect: days > 0}
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -i)
		present := PresentOn(s, day)
		h.Days = append(h.Days, Day{Date: utils.FormatDate(day), Present: present})
		if !present {
			h.Perfect = false
		}
	}
	return h
}

// Find 按学号查找，忽略首尾空白
func Find(students []model.Student, registerNumber string) (model.Student, bool) {
	registerNumber = strings.TrimSpace(registerNumber)
	for _, s := range students {
		if s.RegisterNumber == registerNumber {
			return s, true
		}
	}
	return model.Student{}, false
}
