package device

import (
	"context"
	"sync"

	"campus-attendance/model"
)

// feedBuffer 每个订阅的缓冲样本数，满了丢弃新样本
const feedBuffer = 16

// FeedLocator 由外部推送定位样本 (例如移动端壳通过本地 API 上报 GPS)
// 推送的样本分发给当前所有订阅
type FeedLocator struct {
	mu   sync.Mutex
	subs map[*feedSubscription]struct{}
}

// NewFeedLocator 创建推送式定位源
func NewFeedLocator() *FeedLocator {
	return &FeedLocator{subs: make(map[*feedSubscription]struct{})}
}

// Watch 打开订阅，只接收此后推送的样本
func (f *FeedLocator) Watch(ctx context.Context, _ WatchOptions) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &feedSubscription{feed: f, ch: make(chan model.Sample, feedBuffer)}
	f.mu.Lock()
	f.subs[s] = struct{}{}
	f.mu.Unlock()
	return s, nil
}

// Publish 推送一个样本，返回成功投递的订阅数
func (f *FeedLocator) Publish(s model.Sample) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	delivered := 0
	for sub := range f.subs {
		select {
		case sub.ch <- s:
			delivered++
		default:
		}
	}
	return delivered
}

// Active 当前订阅数
func (f *FeedLocator) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type feedSubscription struct {
	feed *FeedLocator
	ch   chan model.Sample
	once sync.Once
}

func (s *feedSubscription) Samples() <-chan model.Sample { return s.ch }

func (s *feedSubscription) Remove() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		s.feed.mu.Unlock()
	})
}
