// Package config 从 .env 与环境变量加载运行参数
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"campus-attendance/gate"
	"campus-attendance/model"
)

// Config 运行参数
type Config struct {
	Port       string `validate:"required,numeric"`
	BackendURL string `validate:"required,url"`

	CampusLat       float64       `validate:"latitude"`
	CampusLng       float64       `validate:"longitude"`
	AllowedDistance float64       `validate:"gt=0"`
	OuterDistance   float64       `validate:"gt=0"`
	SampleInterval  time.Duration `validate:"gt=0"`
	BaseWait        time.Duration `validate:"gt=0"`
	DeadlineFactor  int           `validate:"gte=1"`

	DBDisabled bool
	DBHost     string `validate:"required_if=DBDisabled false"`
	DBPort     string `validate:"required_if=DBDisabled false"`
	DBUser     string
	DBPassword string
	DBName     string `validate:"required_if=DBDisabled false"`

	JWTSecret         string
	StaffPasswordHash string

	LocationPermission bool
	BiometricHardware  bool
	BiometricApprove   bool
	TrackFile          string

	RosterRefresh string
	CORSOrigins   []string
}

// Load 读取 .env (不存在时忽略) 与环境变量，并校验
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("加载 .env 失败: %w", err)
	}

	def := gate.DefaultConfig()
	cfg := Config{
		Port:       getEnvOrDefault("PORT", "8080"),
		BackendURL: getEnvOrDefault("BACKEND_URL", "https://vsbec-placement-backend.onrender.com"),

		DBDisabled: getBool("DB_DISABLED", false),
		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "attendance"),
		DBPassword: getEnvOrDefault("DB_PASSWORD", "attendance"),
		DBName:     getEnvOrDefault("DB_NAME", "attendance"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		StaffPasswordHash: os.Getenv("STAFF_PASSWORD_HASH"),

		LocationPermission: getBool("LOCATION_PERMISSION", true),
		BiometricHardware:  getBool("BIOMETRIC_HARDWARE", true),
		BiometricApprove:   getBool("BIOMETRIC_APPROVE", true),
		TrackFile:          os.Getenv("TRACK_FILE"),

		RosterRefresh: getEnvOrDefault("ROSTER_REFRESH", "@every 15m"),
		CORSOrigins:   splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.CampusLat, err = getFloat("CAMPUS_LAT", def.Campus.Latitude); err != nil {
		return Config{}, err
	}
	if cfg.CampusLng, err = getFloat("CAMPUS_LNG", def.Campus.Longitude); err != nil {
		return Config{}, err
	}
	if cfg.AllowedDistance, err = getFloat("ALLOWED_DISTANCE_M", def.AllowedDistance); err != nil {
		return Config{}, err
	}
	if cfg.OuterDistance, err = getFloat("OUTER_DISTANCE_M", def.OuterDistance); err != nil {
		return Config{}, err
	}
	if cfg.SampleInterval, err = getDuration("SAMPLE_INTERVAL", def.SampleInterval); err != nil {
		return Config{}, err
	}
	if cfg.BaseWait, err = getDuration("BASE_WAIT", def.BaseWait); err != nil {
		return Config{}, err
	}
	if cfg.DeadlineFactor, err = getInt("DEADLINE_FACTOR", def.DeadlineFactor); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("配置校验失败: %w", err)
	}
	if cfg.OuterDistance < cfg.AllowedDistance {
		log.Printf("[CONFIG] 注意: 外圈 %.0f 米小于允许范围 %.0f 米，两者之间的样本判定为在校", cfg.OuterDistance, cfg.AllowedDistance)
	}
	return cfg, nil
}

// Gate 转换为闸门参数
func (c Config) Gate() gate.Config {
	g := gate.DefaultConfig()
	g.Campus = model.Coordinate{Latitude: c.CampusLat, Longitude: c.CampusLng}
	g.AllowedDistance = c.AllowedDistance
	g.OuterDistance = c.OuterDistance
	g.SampleInterval = c.SampleInterval
	g.BaseWait = c.BaseWait
	g.DeadlineFactor = c.DeadlineFactor
	return g
}

// DSN PostgreSQL 连接串
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}

// getEnvOrDefault 获取环境变量，如果不存在则返回默认值
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return v
}

func getFloat(key string, defaultVal float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s 不是合法数字: %w", key, err)
	}
	return v, nil
}

func getInt(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s 不是合法整数: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s 不是合法时长: %w", key, err)
	}
	return v, nil
}

// splitList 逗号分隔的列表，忽略空项
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
