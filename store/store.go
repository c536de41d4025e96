// Package store 本地持久化键值状态 (登录标记与学号)
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// 本地持久化的键
const (
	KeyAuthToken = "authToken"
	KeyRegNo     = "regno"
)

// authenticatedToken 注册成功后写入的登录标记
const authenticatedToken = "authenticated"

// ErrNotFound 键不存在
var ErrNotFound = errors.New("store: key not found")

// KV 持久化键值存储
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Login 注册/登录成功后写入登录标记与学号
func Login(ctx context.Context, kv KV, registerNumber string) error {
	if err := kv.Set(ctx, KeyAuthToken, authenticatedToken); err != nil {
		return fmt.Errorf("保存 authToken 失败: %w", err)
	}
	if err := kv.Set(ctx, KeyRegNo, registerNumber); err != nil {
		return fmt.Errorf("保存 regno 失败: %w", err)
	}
	return nil
}

// Logout 清除本地登录状态
func Logout(ctx context.Context, kv KV) error {
	for _, key := range []string{KeyAuthToken, KeyRegNo} {
		if err := kv.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

// LoggedIn 是否存在 authToken (决定是否跳过登录页)
func LoggedIn(ctx context.Context, kv KV) (bool, error) {
	token, err := kv.Get(ctx, KeyAuthToken)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Memory 内存实现，进程退出后丢失
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory 创建空的内存存储
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return ErrNotFound
	}
	delete(m.data, key)
	return nil
}
