package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-attendance/gate"
	"campus-attendance/model"
)

// LocationRequest 移动端上报的一次定位
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Accuracy  float64  `json:"accuracy"` // 精度半径 (米)，可选
}

// PushLocation 把定位样本推给正在进行的标记会话
func (h *Handler) PushLocation(c *gin.Context) {
	if h.Feed == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Location feed is disabled"})
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location: " + err.Error()})
		return
	}

	delivered := h.Feed.Publish(model.Sample{
		Coordinate: model.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude},
		Accuracy:   req.Accuracy,
		At:         h.now(),
	})
	c.JSON(http.StatusOK, gin.H{
		"delivered": delivered,
		"watching":  h.Gate != nil && h.Gate.Busy(),
	})
}

// MarkAttendance 执行一次标记流程，响应体始终是 Outcome
func (h *Handler) MarkAttendance(c *gin.Context) {
	out, err := h.Gate.MarkAttendance(c.Request.Context())
	if err != nil && errors.Is(err, gate.ErrInProgress) {
		c.JSON(http.StatusConflict, out)
		return
	}
	c.JSON(statusFor(out.Kind), out)
}

// statusFor 终态到 HTTP 状态码
func statusFor(kind gate.Kind) int {
	switch kind {
	case gate.KindSuccess:
		return http.StatusOK
	case gate.KindPermissionDenied:
		return http.StatusForbidden
	case gate.KindOutOfRange, gate.KindTimeout:
		return http.StatusUnprocessableEntity
	case gate.KindBiometricUnavailable, gate.KindBiometricFailed:
		return http.StatusUnauthorized
	case gate.KindNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ListAttempts 最近的标记尝试，limit 默认 20，最大 100
func (h *Handler) ListAttempts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	if limit > 100 {
		limit = 100
	}

	if h.Attempts == nil {
		c.JSON(http.StatusOK, gin.H{"attempts": []model.GateAttempt{}, "count": 0})
		return
	}
	attempts, err := h.Attempts.Recent(c.Request.Context(), limit)
	if err != nil {
		log.Printf("[ATTEMPT] 查询尝试记录失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load attempts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts, "count": len(attempts)})
}
