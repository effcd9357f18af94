package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionSweeper 清理过期编辑会话
type SessionSweeper interface {
	SweepSessions() int
}

// LimiterPruner 清理空闲的限流桶
type LimiterPruner interface {
	Prune(idle time.Duration) int
}

// SweepTask 内存清理：过期的编辑会话、长时间没有请求的限流桶
type SweepTask struct {
	sessions SessionSweeper
	limiter  LimiterPruner
	Cron     *cron.Cron
	spec     string
	idle     time.Duration
}

// NewSweepTask limiter 可以为空
func NewSweepTask(sessions SessionSweeper, limiter LimiterPruner, spec string, idle time.Duration) *SweepTask {
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &SweepTask{
		sessions: sessions,
		limiter:  limiter,
		Cron:     cron.New(cron.WithSeconds()),
		spec:     spec,
		idle:     idle,
	}
}

// Start 启动定时任务
func (t *SweepTask) Start() error {
	if _, err := t.Cron.AddFunc(t.spec, func() { t.RunOnce() }); err != nil {
		return fmt.Errorf("无效的清理周期 %q: %w", t.spec, err)
	}
	t.Cron.Start()
	zap.L().Info("内存清理任务已启动", zap.String("cron", t.spec))
	return nil
}

// Stop 停止调度
func (t *SweepTask) Stop() context.Context {
	return t.Cron.Stop()
}

// RunOnce 执行一轮清理，返回清掉的会话数和限流桶数
func (t *SweepTask) RunOnce() (sessions, limiters int) {
	if t.sessions != nil {
		sessions = t.sessions.SweepSessions()
	}
	if t.limiter != nil {
		limiters = t.limiter.Prune(t.idle)
	}
	if sessions > 0 || limiters > 0 {
		zap.L().Info("[Cron] 清理完成",
			zap.Int("sessions", sessions),
			zap.Int("limiters", limiters))
	}
	return sessions, limiters
}
