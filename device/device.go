// Package device 设备能力接口 (定位权限、定位订阅、生物识别) 及其实现
package device

import (
	"context"
	"time"

	"campus-attendance/model"
)

// Permissions 定位权限查询
type Permissions interface {
	LocationGranted(ctx context.Context) (bool, error)
}

// WatchOptions 定位订阅参数
type WatchOptions struct {
	Accuracy model.Accuracy
	Interval time.Duration // 采样间隔
}

// Subscription 一个可取消的实时定位订阅
// Remove 可重复调用；调用后 Samples 不再投递新样本
type Subscription interface {
	Samples() <-chan model.Sample
	Remove()
}

// Locator 打开实时定位订阅
type Locator interface {
	Watch(ctx context.Context, opts WatchOptions) (Subscription, error)
}

// Biometrics 生物识别能力
type Biometrics interface {
	HasHardware(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, prompt string) (bool, error)
}

// StaticPermissions 固定返回配置好的授权结果
type StaticPermissions struct {
	Granted bool
}

func (p StaticPermissions) LocationGranted(context.Context) (bool, error) {
	return p.Granted, nil
}

// StaticBiometrics 固定返回配置好的硬件与验证结果
type StaticBiometrics struct {
	Hardware bool
	Approve  bool
}

func (b StaticBiometrics) HasHardware(context.Context) (bool, error) {
	return b.Hardware, nil
}

func (b StaticBiometrics) Authenticate(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return b.Approve, nil
}
