package task

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"laptop_catalog/internal/service"
)

// FacetLoader 重建筛选项索引
type FacetLoader interface {
	LoadFacets(ctx context.Context) service.FacetResult
}

// FacetRefreshTask 定时重建筛选项
// 后台改商品时已经主动失效缓存，这里兜底处理直接写库或远程存储被其他系统修改的情况
type FacetRefreshTask struct {
	loader  FacetLoader
	Cron    *cron.Cron
	spec    string
	timeout time.Duration
}

func NewFacetRefreshTask(loader FacetLoader, spec string) *FacetRefreshTask {
	return &FacetRefreshTask{
		loader:  loader,
		Cron:    cron.New(cron.WithSeconds()), // 支持秒级控制
		spec:    spec,
		timeout: time.Minute,
	}
}

// Start 启动定时任务，首次加载异步执行
func (t *FacetRefreshTask) Start() error {
	if _, err := t.Cron.AddFunc(t.spec, t.runJob); err != nil {
		return fmt.Errorf("无效的筛选项刷新周期 %q: %w", t.spec, err)
	}

	go t.runJob()

	t.Cron.Start()
	zap.L().Info("筛选项刷新任务已启动", zap.String("cron", t.spec))
	return nil
}

// Stop 停止调度，返回的 ctx 在正在执行的任务结束后关闭
func (t *FacetRefreshTask) Stop() context.Context {
	return t.Cron.Stop()
}

// RefreshNow 手动触发一次
func (t *FacetRefreshTask) RefreshNow(ctx context.Context) service.FacetResult {
	return t.loader.LoadFacets(ctx)
}

func (t *FacetRefreshTask) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	start := time.Now()
	res := t.loader.LoadFacets(ctx)
	if res.Err != nil {
		// LoadFacets 内部已记录原因
		return
	}
	zap.L().Debug("[Cron] 筛选项刷新完成",
		zap.Int("brands", len(res.Index.Brands)),
		zap.Int("tags", len(res.Index.Tags)),
		zap.Duration("cost", time.Since(start)))
}
