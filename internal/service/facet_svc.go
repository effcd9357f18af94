package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"laptop_catalog/internal/model"
	"laptop_catalog/internal/repository"
)

// ==================== 筛选项索引 ====================

// FacetIndex 从商品全集推导出的可选筛选项
// Brands / Tags 均按字典序排列且无重复
type FacetIndex struct {
	Brands []string `json:"brands"`
	Tags   []string `json:"tags"`
}

// EmptyFacetIndex 拉取失败时的降级结果
func EmptyFacetIndex() FacetIndex {
	return FacetIndex{Brands: []string{}, Tags: []string{}}
}

// BuildFacetIndex 计算品牌和标签的去重有序集合，空字符串跳过
func BuildFacetIndex(products []model.Product) FacetIndex {
	brands := make([]string, 0, len(products))
	tags := make([]string, 0, len(products))

	for _, p := range products {
		if p.Brand != "" {
			brands = append(brands, p.Brand)
		}
		for _, tag := range p.Tags {
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	slices.Sort(brands)
	slices.Sort(tags)
	return FacetIndex{
		Brands: slices.Compact(brands),
		Tags:   slices.Compact(tags),
	}
}

// FacetResult 一次加载的结果
// Err 不为空时 Index 是空索引
type FacetResult struct {
	Index    FacetIndex
	Err      error
	LoadedAt time.Time
}

// ==================== FacetService ====================

// FacetService 筛选项服务
// 降级策略：拉取失败只记日志并返回空索引，筛选面板只是辅助功能，不阻塞页面
type FacetService struct {
	store repository.ProductStore

	mu       sync.RWMutex
	snapshot *FacetResult
}

// NewFacetService 创建筛选项服务
func NewFacetService(store repository.ProductStore) *FacetService {
	return &FacetService{store: store}
}

// LoadFacets 拉取商品全集并重建索引
// 成功时替换缓存快照；失败时保留旧快照
func (s *FacetService) LoadFacets(ctx context.Context) FacetResult {
	products, err := s.store.FetchAll(ctx)
	if err != nil {
		zap.L().Warn("加载筛选项失败，降级为空", zap.Error(err))
		return FacetResult{Index: EmptyFacetIndex(), Err: err, LoadedAt: time.Now()}
	}

	res := FacetResult{Index: BuildFacetIndex(products), LoadedAt: time.Now()}

	s.mu.Lock()
	s.snapshot = &res
	s.mu.Unlock()

	zap.L().Debug("筛选项已刷新",
		zap.Int("products", len(products)),
		zap.Int("brands", len(res.Index.Brands)),
		zap.Int("tags", len(res.Index.Tags)))
	return res
}

// Snapshot 返回缓存的索引，没有快照时加载一次
func (s *FacetService) Snapshot(ctx context.Context) FacetResult {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	if snap != nil {
		return *snap
	}
	return s.LoadFacets(ctx)
}

// Invalidate 丢弃缓存，下次读取时重新加载
func (s *FacetService) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}
