package dto

import (
	"laptop_catalog/internal/gallery"
	"laptop_catalog/internal/model"
)

// ==================== 表单 ====================

// ProductForm 商品编辑表单
// 提交时按 validate 标签校验，编辑过程中允许不完整
type ProductForm struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Brand       string          `json:"brand" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=5000"`
	Category    model.Category  `json:"category" validate:"omitempty,oneof=laptop gaming ultrabook workstation chromebook convertible accessory"`
	Condition   model.Condition `json:"condition" validate:"omitempty,oneof=new open_box refurbished used"`
	PriceCents  int64           `json:"price_cents" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Tags        []string        `json:"tags" validate:"max=20,dive,max=50"`

	IsNewArrival   bool `json:"is_new_arrival"`
	IsLimitedStock bool `json:"is_limited_stock"`
	IsDeal         bool `json:"is_deal"`
	Published      bool `json:"published"`
}

// FormFromProduct 从已保存商品回填表单
func FormFromProduct(p *model.Product) ProductForm {
	return ProductForm{
		Name:           p.Name,
		Brand:          p.Brand,
		Description:    p.Description,
		Category:       p.Category,
		Condition:      p.Condition,
		PriceCents:     p.PriceCents,
		Stock:          p.Stock,
		Tags:           append([]string{}, p.Tags...),
		IsNewArrival:   p.IsNewArrival,
		IsLimitedStock: p.IsLimitedStock,
		IsDeal:         p.IsDeal,
		Published:      p.Published,
	}
}

// ToProduct 表单 + 图片 -> 待保存商品
func (f ProductForm) ToProduct(mainImage string, images []string) *model.Product {
	p := &model.Product{
		Name:           f.Name,
		Brand:          f.Brand,
		Description:    f.Description,
		Category:       f.Category,
		Condition:      f.Condition,
		PriceCents:     f.PriceCents,
		Stock:          f.Stock,
		Tags:           append([]string{}, f.Tags...),
		MainImage:      mainImage,
		IsNewArrival:   f.IsNewArrival,
		IsLimitedStock: f.IsLimitedStock,
		IsDeal:         f.IsDeal,
		Published:      f.Published,
	}
	p.SetImageURLs(images)
	return p
}

// UpdateFormReq 表单局部更新，nil 字段不修改
type UpdateFormReq struct {
	Name        *string          `json:"name,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *model.Category  `json:"category,omitempty"`
	Condition   *model.Condition `json:"condition,omitempty"`
	PriceCents  *int64           `json:"price_cents,omitempty" binding:"omitempty,gte=0"`
	Stock       *int             `json:"stock,omitempty" binding:"omitempty,gte=0"`
	Tags        []string         `json:"tags,omitempty"`

	IsNewArrival   *bool `json:"is_new_arrival,omitempty"`
	IsLimitedStock *bool `json:"is_limited_stock,omitempty"`
	IsDeal         *bool `json:"is_deal,omitempty"`
	Published      *bool `json:"published,omitempty"`
}

// Apply 返回合并后的新表单
func (r UpdateFormReq) Apply(f ProductForm) ProductForm {
	if r.Name != nil {
		f.Name = *r.Name
	}
	if r.Brand != nil {
		f.Brand = *r.Brand
	}
	if r.Description != nil {
		f.Description = *r.Description
	}
	if r.Category != nil {
		f.Category = *r.Category
	}
	if r.Condition != nil {
		f.Condition = *r.Condition
	}
	if r.PriceCents != nil {
		f.PriceCents = *r.PriceCents
	}
	if r.Stock != nil {
		f.Stock = *r.Stock
	}
	if r.Tags != nil {
		f.Tags = append([]string{}, r.Tags...)
	}
	if r.IsNewArrival != nil {
		f.IsNewArrival = *r.IsNewArrival
	}
	if r.IsLimitedStock != nil {
		f.IsLimitedStock = *r.IsLimitedStock
	}
	if r.IsDeal != nil {
		f.IsDeal = *r.IsDeal
	}
	if r.Published != nil {
		f.Published = *r.Published
	}
	return f
}

// ==================== 请求 DTO ====================

// OpenEditReq 打开编辑会话，ProductID 为 0 表示新建商品
type OpenEditReq struct {
	ProductID int64 `json:"product_id" binding:"gte=0"`
}

// ReorderImagesReq 拖拽排序，Destination 为空表示取消
type ReorderImagesReq struct {
	Source      *int `json:"source" binding:"required,gte=0"`
	Destination *int `json:"destination" binding:"omitempty,gte=0"`
}

// ==================== 响应 DTO ====================

// EditSessionResp 编辑会话快照
type EditSessionResp struct {
	ID        string      `json:"id"`
	ProductID int64       `json:"product_id"`
	Form      ProductForm `json:"form"`

	MainImage         gallery.Asset    `json:"main_image"`
	MainImageDisplay  string           `json:"main_image_display"`
	MainImageProgress gallery.Progress `json:"main_image_progress"`

	Images         []string         `json:"images"`
	Previews       []string         `json:"previews"`
	MaxImages      int              `json:"max_images"`
	ImagesProgress gallery.Progress `json:"images_progress"`
}

// SubmitResp 提交结果
type SubmitResp struct {
	ProductID int64          `json:"product_id"`
	Created   bool           `json:"created"`
	Product   *model.Product `json:"product"`
}
