package model

import (
	"gorm.io/datatypes"
)

// ==================== 枚举 ====================

// Category 商品分类
// 未知取值原样保存，不做校验
type Category string

const (
	CategoryLaptop      Category = "laptop"
	CategoryGaming      Category = "gaming"
	CategoryUltrabook   Category = "ultrabook"
	CategoryWorkstation Category = "workstation"
	CategoryChromebook  Category = "chromebook"
	CategoryConvertible Category = "convertible"
	CategoryAccessory   Category = "accessory"
)

// Condition 成色
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionOpenBox     Condition = "open_box"
	ConditionRefurbished Condition = "refurbished"
	ConditionUsed        Condition = "used"
)

// ==================== 商品 ====================

type Product struct {
	BaseModel

	// --- 基本信息 ---
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Brand       string    `gorm:"size:100;index" json:"brand"`
	Description string    `gorm:"type:text" json:"description"`
	Category    Category  `gorm:"size:50;index" json:"category"`
	Condition   Condition `gorm:"size:50;index" json:"condition"`

	// --- 价格与库存 ---
	PriceCents int64 `gorm:"default:0" json:"price_cents"`
	Stock      int   `gorm:"default:0" json:"stock"`

	// --- 标签 (JSON 数组) ---
	Tags datatypes.JSONSlice[string] `json:"tags"`

	// --- 图片 ---
	// MainImage 主图 (必填)，Images 为有序图集
	MainImage string         `gorm:"size:512" json:"main_image"`
	Images    []ProductImage `gorm:"foreignKey:ProductID" json:"images"`

	// --- 运营标记 ---
	IsNewArrival   bool `gorm:"default:false" json:"is_new_arrival"`
	IsLimitedStock bool `gorm:"default:false" json:"is_limited_stock"`
	IsDeal         bool `gorm:"default:false" json:"is_deal"`
	Published      bool `gorm:"default:false;index" json:"published"`

	// --- 审计 ---
	UpdatedBy string `gorm:"size:100" json:"updated_by,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ImageURLs 按 Rank 顺序返回图集地址
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// SetImageURLs 用有序地址列表重建图集，Rank 从 0 开始连续编号
func (p *Product) SetImageURLs(urls []string) {
	images := make([]ProductImage, 0, len(urls))
	for i, u := range urls {
		images = append(images, ProductImage{
			ProductID: p.ID,
			URL:       u,
			Rank:      i,
		})
	}
	p.Images = images
}

type ProductImage struct {
	BaseModel

	// --- 关联关系 ---
	ProductID int64    `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// --- 资源地址 ---
	URL string `gorm:"size:512" json:"url"`

	// --- 展示顺序 ---
	Rank int `gorm:"default:0;index" json:"rank"`
}

func (*ProductImage) TableName() string {
	return "product_images"
}
