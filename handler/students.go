package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-attendance/model"
	"campus-attendance/roster"
	"campus-attendance/utils"
)

// ProfileResponse 学生详情
type ProfileResponse struct {
	Student model.Student  `json:"student"`
	History roster.History `json:"history"`
}

// classStudents 当前员工班级内的学生
func (h *Handler) classStudents(c *gin.Context) ([]model.Student, bool) {
	students, err := h.Roster.Students(c.Request.Context())
	if err != nil {
		log.Printf("[ROSTER] %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch students"})
		return nil, false
	}
	return roster.Filter(students, classFrom(c)), true
}

// ListStudents 班级名册
func (h *Handler) ListStudents(c *gin.Context) {
	students, ok := h.classStudents(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"class":    classFrom(c),
		"count":    len(students),
		"students": students,
	})
}

// TodayAttendance 班级今日出勤
func (h *Handler) TodayAttendance(c *gin.Context) {
	students, ok := h.classStudents(c)
	if !ok {
		return
	}
	now := h.now()
	statuses := roster.Today(students, now)
	present := 0
	for _, s := range statuses {
		if s.Present {
			present++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"date":     utils.FormatDate(now),
		"count":    len(statuses),
		"present":  present,
		"students": statuses,
	})
}

// StudentProfile 学生详情与近 15 天出勤，仅限本班学生
func (h *Handler) StudentProfile(c *gin.Context) {
	students, ok := h.classStudents(c)
	if !ok {
		return
	}
	s, found := roster.Find(students, c.Param("regno"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{
		Student: s,
		History: roster.HistoryOf(s, h.now(), roster.HistoryDays),
	})
}
