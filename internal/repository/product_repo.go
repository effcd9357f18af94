package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"laptop_catalog/internal/model"
)

// ==================== 接口定义 ====================

// ErrNotFound 商品不存在
var ErrNotFound = errors.New("product not found")

// ProductStore 商品存储
// 本地数据库与远程文档存储共用的最小契约，写操作返回完整对象
type ProductStore interface {
	FetchAll(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, id int64, product *model.Product) (*model.Product, error)
}

// ProductRepository 数据库商品仓储
type ProductRepository interface {
	ProductStore

	// 图片操作
	GetImagesByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error)
	ReplaceImages(ctx context.Context, productID int64, urls []string) error

	// 事务
	WithTx(tx *gorm.DB) ProductRepository
	Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FetchAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC, id ASC")
		}).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC, id ASC")
		}).
		First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create 创建商品，图集按给定顺序落库
func (r *productRepo) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	urls := product.ImageURLs()
	product.Images = nil

	err := r.Transaction(ctx, func(txRepo ProductRepository) error {
		tx := txRepo.(*productRepo)
		if err := tx.db.WithContext(ctx).Create(product).Error; err != nil {
			return err
		}
		return tx.ReplaceImages(ctx, product.ID, urls)
	})
	if err != nil {
		return nil, fmt.Errorf("创建商品失败: %w", err)
	}
	return r.GetByID(ctx, product.ID)
}

// Update 全量更新商品字段并重建图集
func (r *productRepo) Update(ctx context.Context, id int64, product *model.Product) (*model.Product, error) {
	urls := product.ImageURLs()

	err := r.Transaction(ctx, func(txRepo ProductRepository) error {
		tx := txRepo.(*productRepo)

		var existing model.Product
		if err := tx.db.WithContext(ctx).First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		err := tx.db.WithContext(ctx).
			Model(&existing).
			Select("name", "brand", "description", "category", "condition",
				"price_cents", "stock", "tags", "main_image",
				"is_new_arrival", "is_limited_stock", "is_deal", "published", "updated_by").
			Updates(&model.Product{
				Name:           product.Name,
				Brand:          product.Brand,
				Description:    product.Description,
				Category:       product.Category,
				Condition:      product.Condition,
				PriceCents:     product.PriceCents,
				Stock:          product.Stock,
				Tags:           product.Tags,
				MainImage:      product.MainImage,
				IsNewArrival:   product.IsNewArrival,
				IsLimitedStock: product.IsLimitedStock,
				IsDeal:         product.IsDeal,
				Published:      product.Published,
				UpdatedBy:      product.UpdatedBy,
			}).Error
		if err != nil {
			return err
		}
		return tx.ReplaceImages(ctx, id, urls)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("更新商品失败: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *productRepo) GetImagesByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("rank ASC, id ASC").
		Find(&images).Error
	return images, err
}

// ReplaceImages 删除旧图集，按顺序写入新图集
func (r *productRepo) ReplaceImages(ctx context.Context, productID int64, urls []string) error {
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ProductImage{}).Error; err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}

	images := make([]model.ProductImage, 0, len(urls))
	for i, u := range urls {
		images = append(images, model.ProductImage{ProductID: productID, URL: u, Rank: i})
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
