package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"campus-attendance/client"
	"campus-attendance/config"
	"campus-attendance/db"
	"campus-attendance/device"
	"campus-attendance/gate"
	"campus-attendance/handler"
	"campus-attendance/roster"
	"campus-attendance/scheduler"
	"campus-attendance/store"
)

func main() {
	fmt.Println("=== 校园考勤闸门 ===")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 本地状态: 数据库或内存
	var (
		kv       store.KV
		cache    roster.Cache
		attempts *db.AttemptLog
	)
	if cfg.DBDisabled {
		log.Println("[MAIN] 未启用数据库，本地状态仅保存在内存中")
		kv = store.NewMemory()
		cache = &roster.MemoryCache{}
	} else {
		conn, err := db.InitDB(cfg.DSN())
		if err != nil {
			log.Fatalf("初始化数据库失败: %v", err)
		}
		defer db.Close()
		kv = db.NewSettingStore(conn)
		cache = db.NewRosterCache(conn)
		attempts = db.NewAttemptLog(conn)
	}

	// 3. 后端客户端
	backend := client.New(cfg.BackendURL, nil)

	// 4. 设备能力: 有轨迹文件时回放，否则由移动端推送定位
	var (
		locator device.Locator
		feed    *device.FeedLocator
	)
	if cfg.TrackFile != "" {
		track, err := device.LoadTrack(cfg.TrackFile)
		if err != nil {
			log.Fatalf("加载轨迹失败: %v", err)
		}
		log.Printf("[MAIN] 使用轨迹回放定位: %s (%d 个点)", cfg.TrackFile, len(track.Points))
		locator = track
	} else {
		feed = device.NewFeedLocator()
		locator = feed
	}

	deps := gate.Deps{
		Permissions: device.StaticPermissions{Granted: cfg.LocationPermission},
		Locator:     locator,
		Biometrics:  device.StaticBiometrics{Hardware: cfg.BiometricHardware, Approve: cfg.BiometricApprove},
		Identity:    kv,
		Backend:     backend,
	}
	// 避免把 nil 指针装进接口
	if attempts != nil {
		deps.Attempts = attempts
	}
	g := gate.New(cfg.Gate(), deps)

	// 5. 名册服务与定时刷新
	rosterSvc := &roster.Service{Source: backend, Cache: cache}
	refresher, err := scheduler.StartRosterRefresh(cfg.RosterRefresh, rosterSvc)
	if err != nil {
		log.Fatalf("启动名册刷新失败: %v", err)
	}

	h := &handler.Handler{
		Gate:              g,
		Feed:              feed,
		Store:             kv,
		Backend:           backend,
		Roster:            rosterSvc,
		JWTSecret:         []byte(cfg.JWTSecret),
		StaffPasswordHash: cfg.StaffPasswordHash,
	}
	if attempts != nil {
		h.Attempts = attempts
	}

	// 6. 初始化 Gin 引擎并配置路由
	r := gin.Default()
	h.Routes(r)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. 启动服务器
	go func() {
		log.Printf("[MAIN] 服务器启动: http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 8. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[MAIN] 正在关闭...")

	<-refresher.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[MAIN] 关闭服务器失败: %v", err)
	}
}
