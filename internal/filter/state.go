package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"laptop_catalog/internal/model"
)

// ==================== 错误 ====================

var (
	ErrUnknownDimension = errors.New("unknown facet dimension")
	ErrUnknownFlag      = errors.New("unknown filter flag")
)

// ==================== 维度与开关 ====================

// Dimension 多选筛选维度
type Dimension string

const (
	DimensionBrand     Dimension = "brand"
	DimensionCategory  Dimension = "category"
	DimensionCondition Dimension = "condition"
	DimensionTag       Dimension = "tag"
)

// Flag 布尔筛选开关
type Flag string

const (
	FlagNewArrival   Flag = "isNewArrival"
	FlagLimitedStock Flag = "isLimitedStock"
	FlagDeal         Flag = "isDeal"
	FlagPublished    Flag = "published"
)

// ==================== 筛选状态 ====================

// State 筛选状态
// 多选维度均为有序去重切片，因此集合相等即切片相等。
// 所有修改方法返回新值，原值不变。
type State struct {
	Query          string            `json:"query" form:"query"`
	Brand          []string          `json:"brand" form:"brand"`
	Category       []model.Category  `json:"category" form:"category"`
	Condition      []model.Condition `json:"condition" form:"condition"`
	Tags           []string          `json:"tags" form:"tags"`
	IsNewArrival   bool              `json:"isNewArrival" form:"isNewArrival"`
	IsLimitedStock bool              `json:"isLimitedStock" form:"isLimitedStock"`
	IsDeal         bool              `json:"isDeal" form:"isDeal"`
	Published      bool              `json:"published" form:"published"`
}

// Default 初始状态：空查询、空集合、只看已发布
func Default() State {
	return State{
		Brand:     []string{},
		Category:  []model.Category{},
		Condition: []model.Condition{},
		Tags:      []string{},
		Published: true,
	}
}

// Normalize 排序去重，外部传入的状态 (query string / JSON) 先经过这里
func (s State) Normalize() State {
	out := s.clone()
	out.Brand = normalizeSet(out.Brand)
	out.Category = normalizeSet(out.Category)
	out.Condition = normalizeSet(out.Condition)
	out.Tags = normalizeSet(out.Tags)
	return out
}

// Toggle 值存在则移除，不存在则插入
// 不校验 value 是否出现在筛选项索引中，未知值照常保存
func (s State) Toggle(dim Dimension, value string) (State, error) {
	out := s.clone()
	switch dim {
	case DimensionBrand:
		out.Brand = toggle(out.Brand, value)
	case DimensionCategory:
		out.Category = toggle(out.Category, model.Category(value))
	case DimensionCondition:
		out.Condition = toggle(out.Condition, model.Condition(value))
	case DimensionTag:
		out.Tags = toggle(out.Tags, value)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	return out, nil
}

// SetFlag 直接覆盖一个布尔开关
func (s State) SetFlag(flag Flag, value bool) (State, error) {
	out := s.clone()
	switch flag {
	case FlagNewArrival:
		out.IsNewArrival = value
	case FlagLimitedStock:
		out.IsLimitedStock = value
	case FlagDeal:
		out.IsDeal = value
	case FlagPublished:
		out.Published = value
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
	}
	return out, nil
}

// SetQuery 覆盖搜索词
func (s State) SetQuery(q string) State {
	out := s.clone()
	out.Query = q
	return out
}

// Clear 重置为初始状态
func (s State) Clear() State {
	return Default()
}

// ==================== 结果过滤 ====================

// Matches 判断商品是否满足当前筛选
func (s State) Matches(p *model.Product) bool {
	if s.Published && !p.Published {
		return false
	}
	if s.IsNewArrival && !p.IsNewArrival {
		return false
	}
	if s.IsLimitedStock && !p.IsLimitedStock {
		return false
	}
	if s.IsDeal && !p.IsDeal {
		return false
	}
	if len(s.Brand) > 0 && !slices.Contains(s.Brand, p.Brand) {
		return false
	}
	if len(s.Category) > 0 && !slices.Contains(s.Category, p.Category) {
		return false
	}
	if len(s.Condition) > 0 && !slices.Contains(s.Condition, p.Condition) {
		return false
	}
	if len(s.Tags) > 0 && !slices.ContainsFunc(p.Tags, func(tag string) bool {
		return slices.Contains(s.Tags, tag)
	}) {
		return false
	}
	if q := strings.TrimSpace(s.Query); q != "" {
		q = strings.ToLower(q)
		haystack := strings.ToLower(p.Name + "\n" + p.Brand + "\n" + p.Description)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// Apply 过滤商品列表，保持原有顺序
func (s State) Apply(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for i := range products {
		if s.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

// ==================== 集合工具 ====================

func (s State) clone() State {
	out := s
	out.Brand = slices.Clone(s.Brand)
	out.Category = slices.Clone(s.Category)
	out.Condition = slices.Clone(s.Condition)
	out.Tags = slices.Clone(s.Tags)
	return out
}

// toggle 在有序集合中插入或删除 v
func toggle[T ~string](set []T, v T) []T {
	i, found := slices.BinarySearch(set, v)
	if found {
		return slices.Delete(set, i, i+1)
	}
	return slices.Insert(set, i, v)
}

func normalizeSet[T ~string](set []T) []T {
	if set == nil {
		return []T{}
	}
	slices.Sort(set)
	return slices.Compact(set)
}
