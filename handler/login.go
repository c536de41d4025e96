package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"campus-attendance/client"
	"campus-attendance/model"
	"campus-attendance/roster"
	"campus-attendance/store"
	"campus-attendance/utils"
)

// defaultTokenTTL 员工 Token 默认有效期
const defaultTokenTTL = 12 * time.Hour

// Claims 员工 JWT 载荷，携带登录时选择的班级
type Claims struct {
	Department string `json:"department"`
	Year       string `json:"year"`
	Section    string `json:"section,omitempty"`
	jwt.RegisteredClaims
}

// StaffLoginRequest 员工登录请求
type StaffLoginRequest struct {
	Password   string `json:"password" binding:"required"`
	Department string `json:"department" binding:"required"`
	Year       string `json:"year" binding:"required"`
	Section    string `json:"section"`
}

// StaffLoginResponse 员工登录响应
type StaffLoginResponse struct {
	Token   string       `json:"token"`
	Class   roster.Class `json:"class"`
	Message string       `json:"message"`
}

// Login 学生注册/登录: 转发到后端，成功后保存 authToken 与学号
func (h *Handler) Login(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all the details."})
		return
	}

	err := h.Backend.Register(c.Request.Context(), req)
	var se *client.StatusError
	switch {
	case errors.Is(err, client.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all the details.", "detail": err.Error()})
		return
	case errors.As(err, &se):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	case err != nil:
		log.Printf("[LOGIN] 注册请求失败: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Login failed. Please try again."})
		return
	}

	regno := strings.TrimSpace(req.RegisterNumber)
	if err := store.Login(c.Request.Context(), h.Store, regno); err != nil {
		log.Printf("[LOGIN] 保存本地状态失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Login successful",
		"registerNumber": regno,
	})
}

// Session 本地是否已登录 (存在 authToken 时客户端直接进入主页)
func (h *Handler) Session(c *gin.Context) {
	ctx := c.Request.Context()
	loggedIn, err := store.LoggedIn(ctx, h.Store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read session"})
		return
	}

	resp := gin.H{"loggedIn": loggedIn}
	if loggedIn {
		if regno, err := h.Store.Get(ctx, store.KeyRegNo); err == nil {
			resp["registerNumber"] = regno
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Logout 清除本地登录状态
func (h *Handler) Logout(c *gin.Context) {
	if err := store.Logout(c.Request.Context(), h.Store); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// StaffLogin 员工登录: 校验密码，签发携带班级的 JWT
func (h *Handler) StaffLogin(c *gin.Context) {
	var req StaffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all the details."})
		return
	}

	if h.StaffPasswordHash == "" || len(h.JWTSecret) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Staff login is not configured"})
		return
	}
	if !utils.CheckPassword(h.StaffPasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Enter correct Password"})
		return
	}

	ttl := h.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := h.now()
	class := roster.Class{Department: req.Department, Year: req.Year, Section: req.Section}
	claims := &Claims{
		Department: class.Department,
		Year:       class.Year,
		Section:    class.Section,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "staff",
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "campus-attendance",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, StaffLoginResponse{
		Token:   tokenString,
		Class:   class,
		Message: "Login successful",
	})
}

// AuthMiddleware JWT 认证中间件，把班级存入上下文
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			c.Abort()
			return
		}

		// 移除 "Bearer " 前缀
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return h.JWTSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(h.now))

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(classKey, roster.Class{
			Department: claims.Department,
			Year:       claims.Year,
			Section:    claims.Section,
		})
		c.Next()
	}
}

const classKey = "class"

func classFrom(c *gin.Context) roster.Class {
	v, _ := c.Get(classKey)
	class, _ := v.(roster.Class)
	return class
}
