package utils

import "time"

// DateLayout 后端使用的日期格式
const DateLayout = "2006-01-02"

// FormatDate 按 t 所在时区的日历日格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay 判断后端日期字符串与 day 是否为同一日历日 (以 day 的时区为准)
// 兼容 "2006-01-02" 与 RFC3339 两种写法
func SameDay(date string, day time.Time) bool {
	if len(date) == len(DateLayout) {
		return date == FormatDate(day)
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return false
	}
	return FormatDate(t.In(day.Location())) == FormatDate(day)
}
