package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laptop_catalog/internal/filter"
	"laptop_catalog/internal/model"
)

func sampleProducts() []model.Product {
	return []model.Product{
		{Name: "ThinkPad X1", Brand: "Lenovo", Category: model.CategoryUltrabook, Condition: model.ConditionNew, Tags: []string{"business", "14inch"}, Published: true},
		{Name: "Legion 5", Brand: "Lenovo", Category: model.CategoryGaming, Condition: model.ConditionRefurbished, Tags: []string{"rtx", "business"}, Published: true, IsDeal: true},
		{Name: "XPS 13", Brand: "Dell", Category: model.CategoryUltrabook, Condition: model.ConditionOpenBox, Tags: []string{"14inch"}, Published: true},
		{Name: "MacBook Air", Brand: "Apple", Category: model.CategoryLaptop, Condition: model.ConditionUsed, Published: false},
		{Name: "Unbranded Dock", Brand: "", Category: model.CategoryAccessory, Tags: []string{""}, Published: true},
	}
}

func TestBuildFacetIndex(t *testing.T) {
	idx := BuildFacetIndex(sampleProducts())

	assert.Equal(t, []string{"Apple", "Dell", "Lenovo"}, idx.Brands)
	assert.Equal(t, []string{"14inch", "business", "rtx"}, idx.Tags)
}

func TestBuildFacetIndex_Properties(t *testing.T) {
	products := sampleProducts()
	idx := BuildFacetIndex(products)

	assert.True(t, slices.IsSorted(idx.Brands))
	assert.True(t, slices.IsSorted(idx.Tags))
	assert.Equal(t, len(slices.Compact(slices.Clone(idx.Brands))), len(idx.Brands))

	// 每个非空品牌都在索引中，索引中的每个品牌都来自某个商品
	for _, p := range products {
		if p.Brand != "" {
			assert.Contains(t, idx.Brands, p.Brand)
		}
	}
	for _, b := range idx.Brands {
		assert.True(t, slices.ContainsFunc(products, func(p model.Product) bool { return p.Brand == b }))
	}

	// 顺序无关
	reversed := slices.Clone(products)
	slices.Reverse(reversed)
	assert.Equal(t, idx, BuildFacetIndex(reversed))
}

func TestBuildFacetIndex_Empty(t *testing.T) {
	idx := BuildFacetIndex(nil)
	assert.Empty(t, idx.Brands)
	assert.Empty(t, idx.Tags)
	assert.NotNil(t, idx.Brands)
}

func TestFacetService_LoadAndCache(t *testing.T) {
	store := newMemStore(sampleProducts()...)
	svc := NewFacetService(store)

	res := svc.Snapshot(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"Apple", "Dell", "Lenovo"}, res.Index.Brands)
	assert.False(t, res.LoadedAt.IsZero())

	svc.Snapshot(context.Background())
	assert.Equal(t, 1, store.fetchCount(), "快照命中时不应重复拉取")

	svc.Invalidate()
	svc.Snapshot(context.Background())
	assert.Equal(t, 2, store.fetchCount())
}

func TestFacetService_FetchErrorDegrades(t *testing.T) {
	store := newMemStore(sampleProducts()...)
	store.fetchErr = errors.New("connection refused")
	svc := NewFacetService(store)

	res := svc.LoadFacets(context.Background())
	require.Error(t, res.Err)
	assert.Equal(t, EmptyFacetIndex(), res.Index)

	// 失败不写缓存，恢复后下次读取重新加载
	store.fetchErr = nil
	res = svc.Snapshot(context.Background())
	require.NoError(t, res.Err)
	assert.Len(t, res.Index.Brands, 3)
}

func TestFacetService_FailureKeepsPreviousSnapshot(t *testing.T) {
	store := newMemStore(sampleProducts()...)
	svc := NewFacetService(store)
	svc.LoadFacets(context.Background())

	store.fetchErr = errors.New("timeout")
	res := svc.LoadFacets(context.Background())
	assert.Error(t, res.Err)

	snap := svc.Snapshot(context.Background())
	require.NoError(t, snap.Err)
	assert.Len(t, snap.Index.Brands, 3)
}

func TestCatalogService_Search(t *testing.T) {
	svc := NewCatalogService(newMemStore(sampleProducts()...))

	state, err := filter.Default().Toggle(filter.DimensionBrand, "Lenovo")
	require.NoError(t, err)

	got, err := svc.Search(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ThinkPad X1", got[0].Name)
	assert.Equal(t, "Legion 5", got[1].Name)

	// 默认只看已发布
	all, err := svc.Search(context.Background(), filter.Default())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCatalogService_SearchError(t *testing.T) {
	store := newMemStore()
	store.fetchErr = errors.New("boom")

	_, err := NewCatalogService(store).Search(context.Background(), filter.Default())
	assert.ErrorContains(t, err, "boom")
}
