package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"campus-attendance/device"
	"campus-attendance/gate"
	"campus-attendance/model"
	"campus-attendance/roster"
	"campus-attendance/store"
)

// StudentBackend 学生注册所需的后端接口
type StudentBackend interface {
	Register(ctx context.Context, req model.RegisterRequest) error
}

// AttemptLister 查询最近的标记尝试
type AttemptLister interface {
	Recent(ctx context.Context, limit int) ([]model.GateAttempt, error)
}

// Handler 本地 API 的全部依赖
type Handler struct {
	Gate     *gate.Gate
	Feed     *device.FeedLocator // 推送式定位源，使用轨迹回放时为 nil
	Store    store.KV
	Backend  StudentBackend
	Roster   *roster.Service
	Attempts AttemptLister // 未启用数据库时为 nil

	JWTSecret         []byte
	StaffPasswordHash string
	TokenTTL          time.Duration
	Now               func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Routes 配置路由
func (h *Handler) Routes(r *gin.Engine) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})

	api := r.Group("/api")
	{
		// 学生端
		api.POST("/login", h.Login)
		api.GET("/session", h.Session)
		api.POST("/logout", h.Logout)
		api.POST("/location", h.PushLocation)
		api.POST("/attendance/mark", h.MarkAttendance)
		api.GET("/attendance/attempts", h.ListAttempts)

		// 员工端
		api.POST("/staff/login", h.StaffLogin)
		staff := api.Group("/staff")
		staff.Use(h.AuthMiddleware())
		{
			staff.GET("/students", h.ListStudents)
			staff.GET("/students/today", h.TodayAttendance)
			staff.GET("/students/:regno", h.StudentProfile)
		}
	}
}
