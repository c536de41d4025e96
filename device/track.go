package device

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"campus-attendance/model"
)

// TrackLocator 按采样间隔回放一条预先录制的轨迹
type TrackLocator struct {
	Points []model.Coordinate
	Now    func() time.Time
}

// LoadTrack 从 JSON 文件加载轨迹: [{"latitude":..,"longitude":..}, ...]
func LoadTrack(path string) (*TrackLocator, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取轨迹文件失败: %w", err)
	}
	var points []model.Coordinate
	if err := sonic.Unmarshal(file, &points); err != nil {
		return nil, fmt.Errorf("解析轨迹 JSON 失败: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("轨迹文件 %s 为空", path)
	}
	return &TrackLocator{Points: points}, nil
}

// Watch 第一个点立即投递，之后每个间隔投递一个，回放完毕后不再投递
func (t *TrackLocator) Watch(ctx context.Context, opts WatchOptions) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	now := t.Now
	if now == nil {
		now = time.Now
	}

	s := &trackSubscription{ch: make(chan model.Sample), done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i, p := range t.Points {
			if i > 0 {
				select {
				case <-ticker.C:
				case <-s.done:
					return
				case <-ctx.Done():
					return
				}
			}
			select {
			case s.ch <- model.Sample{Coordinate: p, At: now()}:
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return s, nil
}

type trackSubscription struct {
	ch   chan model.Sample
	done chan struct{}
	once sync.Once
}

func (s *trackSubscription) Samples() <-chan model.Sample { return s.ch }

func (s *trackSubscription) Remove() {
	s.once.Do(func() { close(s.done) })
}
