package service

import (
	"context"
	"fmt"

	"laptop_catalog/internal/filter"
	"laptop_catalog/internal/model"
	"laptop_catalog/internal/repository"
)

// CatalogService 前台商品查询
// 结果过滤在内存中完成，商品存储只负责全量读取
type CatalogService struct {
	store repository.ProductStore
}

// NewCatalogService 创建前台商品服务
func NewCatalogService(store repository.ProductStore) *CatalogService {
	return &CatalogService{store: store}
}

// Search 按筛选状态过滤商品全集
func (s *CatalogService) Search(ctx context.Context, state filter.State) ([]model.Product, error) {
	products, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	return state.Normalize().Apply(products), nil
}

// GetProduct 商品详情
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.store.GetByID(ctx, id)
}
