package dto

import (
	"time"

	"laptop_catalog/internal/filter"
	"laptop_catalog/internal/model"
)

// ==================== 前台筛选请求 ====================

// ToggleFilterReq 切换多选维度中的一个值
type ToggleFilterReq struct {
	State     filter.State     `json:"state"`
	Dimension filter.Dimension `json:"dimension" binding:"required"`
	Value     string           `json:"value"`
}

// SetFlagReq 设置布尔开关
type SetFlagReq struct {
	State filter.State `json:"state"`
	Flag  filter.Flag  `json:"flag" binding:"required"`
	Value bool         `json:"value"`
}

// SetQueryReq 设置搜索词
type SetQueryReq struct {
	State filter.State `json:"state"`
	Query string       `json:"query" binding:"max=200"`
}

// ClearFilterReq 重置筛选
type ClearFilterReq struct {
	State filter.State `json:"state"`
}

// ==================== 前台响应 ====================

// FilterResp 新筛选状态 + 命中的商品
type FilterResp struct {
	State    filter.State    `json:"state"`
	Total    int             `json:"total"`
	Products []model.Product `json:"products"`
}

// FacetResp 筛选项
// Degraded 为 true 表示加载失败，返回的是空索引
type FacetResp struct {
	Brands   []string  `json:"brands"`
	Tags     []string  `json:"tags"`
	Degraded bool      `json:"degraded"`
	Error    string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// UIFlagsResp 界面开关
type UIFlagsResp struct {
	Flags map[string]bool `json:"flags"`
}
