// Package scheduler 后台定时任务
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"campus-attendance/model"
)

// refreshTimeout 单次刷新名册的超时
const refreshTimeout = time.Minute

// Refresher 名册刷新
type Refresher interface {
	Refresh(ctx context.Context) ([]model.Student, error)
}

// StartRosterRefresh 按 schedule (cron 表达式或 "@every 15m") 定时刷新名册缓存
// 返回的 *cron.Cron 需要在退出时 Stop
func StartRosterRefresh(schedule string, r Refresher) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { refreshOnce(r) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[SCHEDULER] 名册刷新任务已启动: %s", schedule)
	return c, nil
}

func refreshOnce(r Refresher) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	students, err := r.Refresh(ctx)
	if err != nil {
		log.Printf("[SCHEDULER] 刷新名册失败: %v", err)
		return
	}
	log.Printf("[SCHEDULER] 名册已刷新: %d 人", len(students))
}
