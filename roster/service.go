package roster

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"campus-attendance/model"
)

// Source 名册来源 (后端 GET /student/all)
type Source interface {
	Students(ctx context.Context) ([]model.Student, error)
}

// Cache 名册本地缓存
type Cache interface {
	Save(ctx context.Context, students []model.Student, at time.Time) error
	Load(ctx context.Context) ([]model.Student, error)
}

// Service 优先读取后端，成功后写入缓存；后端不可用时退回缓存
type Service struct {
	Source Source
	Cache  Cache // 可为 nil
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Students 返回完整名册
func (s *Service) Students(ctx context.Context) ([]model.Student, error) {
	students, err := s.Refresh(ctx)
	if err == nil {
		return students, nil
	}
	if s.Cache == nil {
		return nil, err
	}

	cached, cerr := s.Cache.Load(ctx)
	if cerr != nil || len(cached) == 0 {
		return nil, err
	}
	log.Printf("[ROSTER] 后端不可用，使用缓存名册 (%d 人): %v", len(cached), err)
	return cached, nil
}

// Refresh 从后端拉取名册并写入缓存，缓存写入失败只记录日志
func (s *Service) Refresh(ctx context.Context) ([]model.Student, error) {
	students, err := s.Source.Students(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取名册失败: %w", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Save(ctx, students, s.now()); err != nil {
			log.Printf("[ROSTER] 写入名册缓存失败: %v", err)
		}
	}
	return students, nil
}

// MemoryCache 内存缓存
type MemoryCache struct {
	mu       sync.RWMutex
	students []model.Student
	at       time.Time
}

func (m *MemoryCache) Save(_ context.Context, students []model.Student, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = append([]model.Student(nil), students...)
	m.at = at
	return nil
}

func (m *MemoryCache) Load(context.Context) ([]model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Student(nil), m.students...), nil
}

// RefreshedAt 最近一次写入时间
func (m *MemoryCache) RefreshedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.at
}
