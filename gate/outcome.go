package gate

import (
	"errors"
	"fmt"
)

// Kind 一次标记出勤的终态类型
type Kind string

const (
	KindSuccess              Kind = "success"
	KindPermissionDenied     Kind = "permission_denied"
	KindOutOfRange           Kind = "out_of_range"
	KindTimeout              Kind = "timeout"
	KindBiometricUnavailable Kind = "biometric_unavailable"
	KindBiometricFailed      Kind = "biometric_failed"
	KindNetworkError         Kind = "network_error"
	KindTransportError       Kind = "transport_error"
)

// 每种失败终态对应的哨兵错误，配合 errors.Is 使用
var (
	ErrPermissionDenied     = errors.New("gate: location permission not granted")
	ErrOutOfRange           = errors.New("gate: not within campus range")
	ErrTimeout              = errors.New("gate: no qualifying location before deadline")
	ErrBiometricUnavailable = errors.New("gate: biometric hardware unavailable")
	ErrBiometricFailed      = errors.New("gate: biometric authentication failed")
	ErrNetwork              = errors.New("gate: marking attendance on backend failed")
	ErrTransport            = errors.New("gate: unexpected failure")

	// ErrInProgress 同一个 Gate 上已有一次标记在进行
	ErrInProgress = errors.New("gate: attendance marking already in progress")
)

// 展示给用户的提示
const (
	msgPermissionDenied     = "Location permission not granted"
	msgNotInCollege         = "You are not in the college location"
	msgLocationFailed       = "Failed to fetch location. Please try again."
	msgBiometricUnavailable = "Biometric authentication is not available on this device"
	msgBiometricFailed      = "Authentication failed"
	msgMarkFailed           = "Failed to mark attendance. Please try again."
	msgStoreFailed          = "Failed to store attendance. Please try again."
	msgInProgress           = "Attendance marking is already in progress"
	msgMarked               = "Attendance marked"
)

// Sentinel 返回该终态对应的哨兵错误，成功时为 nil
func (k Kind) Sentinel() error {
	switch k {
	case KindPermissionDenied:
		return ErrPermissionDenied
	case KindOutOfRange:
		return ErrOutOfRange
	case KindTimeout:
		return ErrTimeout
	case KindBiometricUnavailable:
		return ErrBiometricUnavailable
	case KindBiometricFailed:
		return ErrBiometricFailed
	case KindNetworkError:
		return ErrNetwork
	case KindTransportError:
		return ErrTransport
	default:
		return nil
	}
}

// Outcome 一次标记出勤的结果，Message 可直接展示给用户
type Outcome struct {
	SessionID string  `json:"session_id,omitempty"`
	Kind      Kind    `json:"outcome,omitempty"`
	Message   string  `json:"message"`
	Distance  float64 `json:"distance"` // 最后一个样本到校园的距离 (米)，无样本时为 -1
	Samples   int     `json:"samples"`
}

// Error 失败终态，Unwrap 同时暴露哨兵错误与底层原因
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind.Sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func fail(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
