// Package gate 地理围栏 + 生物识别的出勤闸门
//
// 一次 MarkAttendance 是一条线性状态机:
//
//	Idle -> Permission -> Sampling -> Biometric -> Reporting -> Done
//
// 任一步失败直接进入 Done 并给出唯一的终态。Sampling 阶段定位样本流与截止
// 计时器竞争，先得出结论的一方胜出，定位订阅在返回前恰好释放一次。
package gate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"campus-attendance/client"
	"campus-attendance/device"
	"campus-attendance/model"
	"campus-attendance/store"
	"campus-attendance/utils"
)

// State 状态机的命名状态
type State int

const (
	StateIdle State = iota
	StatePermission
	StateSampling
	StateBiometric
	StateReporting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePermission:
		return "permission"
	case StateSampling:
		return "sampling"
	case StateBiometric:
		return "biometric"
	case StateReporting:
		return "reporting"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config 闸门参数
type Config struct {
	Campus          model.Coordinate // 校园参考点
	AllowedDistance float64          // 小于该距离 (米) 视为在校
	OuterDistance   float64          // 大于等于该距离 (米) 提前放弃
	SampleInterval  time.Duration
	BaseWait        time.Duration
	DeadlineFactor  int // 截止时间 = BaseWait * DeadlineFactor
	Accuracy        model.Accuracy
	Prompt          string // 生物识别提示语
}

// DefaultConfig 默认参数
// AllowedDistance 大于 OuterDistance 是有意保留的: 两个阈值之间的样本仍判定为在校
func DefaultConfig() Config {
	return Config{
		Campus:          model.Coordinate{Latitude: 10.95540815715271, Longitude: 77.95481055369386},
		AllowedDistance: 40000,
		OuterDistance:   30000,
		SampleInterval:  2 * time.Second,
		BaseWait:        10 * time.Second,
		DeadlineFactor:  3,
		Accuracy:        model.AccuracyBestForNavigation,
		Prompt:          "Authenticate to mark attendance",
	}
}

// Deadline 采样阶段的截止时间
func (c Config) Deadline() time.Duration {
	return c.BaseWait * time.Duration(c.DeadlineFactor)
}

// Verdict 单个样本的判定结果
type Verdict int

const (
	KeepWatching Verdict = iota
	InRange
	OutOfRange
)

// Classify 判定一个距离 (米)
// 先看是否在允许范围内，再看是否超出外圈；两者都不满足则继续等待
func (c Config) Classify(distance float64) Verdict {
	if distance < c.AllowedDistance {
		return InRange
	}
	if distance >= c.OuterDistance {
		return OutOfRange
	}
	return KeepWatching
}

// Identity 读取本地持久化的学号
type Identity interface {
	Get(ctx context.Context, key string) (string, error)
}

// Backend 远端出勤记录接口
type Backend interface {
	MarkAttendance(ctx context.Context, req model.AttendanceMarkRequest) (string, error)
}

// AttemptRecorder 记录每次尝试的终态 (可选)
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt model.GateAttempt) error
}

// Deps 闸门依赖的外部协作方
type Deps struct {
	Permissions device.Permissions
	Locator     device.Locator
	Biometrics  device.Biometrics
	Identity    Identity
	Backend     Backend
	Attempts    AttemptRecorder  // 可为 nil
	Now         func() time.Time // 可为 nil，默认 time.Now
}

// Session 一次标记出勤的临时状态，终态后丢弃
type Session struct {
	ID                string
	StartedAt         time.Time
	State             State
	PermissionGranted bool
	InRange           bool
	Watching          bool
	Samples           int
	LastDistance      float64
}

// Gate 出勤闸门，同一时刻只允许一次标记在进行
type Gate struct {
	cfg      Config
	deps     Deps
	now      func() time.Time
	inFlight atomic.Bool
}

// New 创建闸门
func New(cfg Config, deps Deps) *Gate {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Gate{cfg: cfg, deps: deps, now: now}
}

// Config 当前参数
func (g *Gate) Config() Config { return g.cfg }

// Busy 是否有标记正在进行 (界面上的 loading)
func (g *Gate) Busy() bool { return g.inFlight.Load() }

// MarkAttendance 执行一次完整的标记流程
// 成功时 error 为 nil；失败时 error 为 *Error，可用 errors.Is 匹配哨兵错误
func (g *Gate) MarkAttendance(ctx context.Context) (Outcome, error) {
	if !g.inFlight.CompareAndSwap(false, true) {
		return Outcome{Message: msgInProgress, Distance: -1}, ErrInProgress
	}
	defer g.inFlight.Store(false)

	s := &Session{
		ID:           uuid.NewString(),
		StartedAt:    g.now(),
		State:        StateIdle,
		LastDistance: -1,
	}

	message, err := g.run(ctx, s)
	s.State = StateDone

	out := Outcome{
		SessionID: s.ID,
		Kind:      KindSuccess,
		Message:   message,
		Distance:  s.LastDistance,
		Samples:   s.Samples,
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		out.Kind = gerr.Kind
		out.Message = gerr.Message
	}

	g.finish(ctx, s, out, err)
	return out, err
}

func (g *Gate) run(ctx context.Context, s *Session) (string, error) {
	s.State = StatePermission
	granted, err := g.deps.Permissions.LocationGranted(ctx)
	if err != nil {
		return "", fail(KindTransportError, msgLocationFailed, err)
	}
	if !granted {
		return "", fail(KindPermissionDenied, msgPermissionDenied, nil)
	}
	s.PermissionGranted = true

	s.State = StateSampling
	if err := g.sample(ctx, s); err != nil {
		return "", err
	}

	s.State = StateBiometric
	if err := g.verify(ctx); err != nil {
		return "", err
	}

	s.State = StateReporting
	return g.report(ctx)
}

// verify 生物识别: 先查询硬件能力，再弹出一次验证
func (g *Gate) verify(ctx context.Context) error {
	has, err := g.deps.Biometrics.HasHardware(ctx)
	if err != nil || !has {
		return fail(KindBiometricUnavailable, msgBiometricUnavailable, err)
	}
	ok, err := g.deps.Biometrics.Authenticate(ctx, g.cfg.Prompt)
	if err != nil || !ok {
		return fail(KindBiometricFailed, msgBiometricFailed, err)
	}
	return nil
}

// report 读取学号，按本地日历日发送一次出勤请求
func (g *Gate) report(ctx context.Context) (string, error) {
	regno, err := g.deps.Identity.Get(ctx, store.KeyRegNo)
	if err == nil && regno == "" {
		err = store.ErrNotFound
	}
	if err != nil {
		return "", fail(KindTransportError, msgStoreFailed, fmt.Errorf("读取学号失败: %w", err))
	}

	req := model.AttendanceMarkRequest{
		Date:           utils.FormatDate(g.now()),
		RegisterNumber: regno,
	}
	message, err := g.deps.Backend.MarkAttendance(ctx, req)
	if err != nil {
		var se *client.StatusError
		if errors.As(err, &se) {
			return "", fail(KindNetworkError, "Backend Error: "+se.Status, err)
		}
		return "", fail(KindNetworkError, msgMarkFailed, err)
	}
	if message == "" {
		message = msgMarked
	}
	return message, nil
}

// finish 记录日志与尝试记录，记录失败不影响结果
func (g *Gate) finish(ctx context.Context, s *Session, out Outcome, err error) {
	if err != nil {
		log.Printf("[GATE] 会话 %s 结束: %s (样本 %d, 距离 %.0f 米): %v", s.ID, out.Kind, s.Samples, s.LastDistance, err)
	} else {
		log.Printf("[GATE] 会话 %s 出勤成功 (样本 %d, 距离 %.0f 米)", s.ID, s.Samples, s.LastDistance)
	}

	if g.deps.Attempts == nil {
		return
	}
	attempt := model.GateAttempt{
		ID:         s.ID,
		Outcome:    string(out.Kind),
		Message:    out.Message,
		Distance:   s.LastDistance,
		Samples:    s.Samples,
		StartedAt:  s.StartedAt,
		FinishedAt: g.now(),
	}
	if rerr := g.deps.Attempts.RecordAttempt(context.WithoutCancel(ctx), attempt); rerr != nil {
		log.Printf("[GATE] 保存尝试记录失败: %v", rerr)
	}
}
