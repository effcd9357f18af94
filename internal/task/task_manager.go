package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"laptop_catalog/internal/service"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台定时任务
// 管理范围：筛选项刷新、内存清理
type TaskManager struct {
	facetTask *FacetRefreshTask
	sweepTask *SweepTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Facets   FacetLoader
	Sessions SessionSweeper
	Limiter  LimiterPruner
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	// 筛选项刷新
	FacetEnabled bool
	FacetCron    string

	// 内存清理
	SweepEnabled bool
	SweepCron    string
	LimiterIdle  time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		FacetEnabled: true,
		FacetCron:    "0 */10 * * * *",

		SweepEnabled: true,
		SweepCron:    "0 * * * * *",
		LimiterIdle:  10 * time.Minute,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{}

	if cfg.FacetEnabled && deps.Facets != nil && cfg.FacetCron != "" {
		tm.facetTask = NewFacetRefreshTask(deps.Facets, cfg.FacetCron)
	}

	if cfg.SweepEnabled && (deps.Sessions != nil || deps.Limiter != nil) && cfg.SweepCron != "" {
		tm.sweepTask = NewSweepTask(deps.Sessions, deps.Limiter, cfg.SweepCron, cfg.LimiterIdle)
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务，任一任务的周期配置非法时返回错误并停止已启动的任务
func (tm *TaskManager) Start() error {
	zap.L().Info("[TaskManager] 正在启动后台任务...")

	if tm.facetTask != nil {
		if err := tm.facetTask.Start(); err != nil {
			return err
		}
	}
	if tm.sweepTask != nil {
		if err := tm.sweepTask.Start(); err != nil {
			tm.Stop(context.Background())
			return err
		}
	}

	zap.L().Info("[TaskManager] 后台任务已全部启动")
	return nil
}

// Stop 停止所有任务，等待正在执行的任务结束或 ctx 到期
func (tm *TaskManager) Stop(ctx context.Context) {
	zap.L().Info("[TaskManager] 正在停止后台任务...")

	var waits []context.Context
	if tm.facetTask != nil {
		waits = append(waits, tm.facetTask.Stop())
	}
	if tm.sweepTask != nil {
		waits = append(waits, tm.sweepTask.Stop())
	}

	for _, w := range waits {
		select {
		case <-w.Done():
		case <-ctx.Done():
			zap.L().Warn("[TaskManager] 等待任务结束超时")
			return
		}
	}

	zap.L().Info("[TaskManager] 后台任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerFacetRefresh 立即刷新筛选项
func (tm *TaskManager) TriggerFacetRefresh(ctx context.Context) (service.FacetResult, error) {
	if tm.facetTask == nil {
		return service.FacetResult{}, ErrTaskDisabled
	}
	return tm.facetTask.RefreshNow(ctx), nil
}

// TriggerSweep 立即执行一轮清理
func (tm *TaskManager) TriggerSweep() (sessions, limiters int, err error) {
	if tm.sweepTask == nil {
		return 0, 0, ErrTaskDisabled
	}
	sessions, limiters = tm.sweepTask.RunOnce()
	return sessions, limiters, nil
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"facet": tm.facetTask != nil,
		"sweep": tm.sweepTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
