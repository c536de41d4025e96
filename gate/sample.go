package gate

import (
	"context"
	"errors"
	"sync"
	"time"

	"campus-attendance/device"
	"campus-attendance/utils"
)

// errStreamClosed 定位源在得出结论前关闭了样本流
var errStreamClosed = errors.New("location stream closed")

// sample 采样阶段: 样本流与截止计时器竞争
// 返回 nil 表示已进入校园范围；订阅在任何返回路径上都恰好释放一次
func (g *Gate) sample(ctx context.Context, s *Session) error {
	sub, err := g.deps.Locator.Watch(ctx, device.WatchOptions{
		Accuracy: g.cfg.Accuracy,
		Interval: g.cfg.SampleInterval,
	})
	if err != nil {
		return fail(KindTransportError, msgLocationFailed, err)
	}
	s.Watching = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.Watching = false
			sub.Remove()
		})
	}
	defer release()

	deadline := time.NewTimer(g.cfg.Deadline())
	defer deadline.Stop()

	samples := sub.Samples()
	for {
		select {
		case p, ok := <-samples:
			if !ok {
				release()
				return fail(KindTransportError, msgLocationFailed, errStreamClosed)
			}
			d := utils.HaversineDistance(p.Coordinate, g.cfg.Campus)
			s.Samples++
			s.LastDistance = d

			switch g.cfg.Classify(d) {
			case InRange:
				s.InRange = true
				release()
				return nil
			case OutOfRange:
				release()
				return fail(KindOutOfRange, msgNotInCollege, nil)
			}

		case <-deadline.C:
			release()
			return fail(KindTimeout, msgNotInCollege, nil)

		case <-ctx.Done():
			release()
			return fail(KindTimeout, msgNotInCollege, ctx.Err())
		}
	}
}
