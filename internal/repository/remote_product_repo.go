package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"laptop_catalog/internal/model"
)

// ==================== 远程文档存储 ====================

// RemoteStoreConfig 远程文档存储配置
type RemoteStoreConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// productDoc 远程文档格式
// 图集以有序 URL 数组存储，数组下标即展示顺序
type productDoc struct {
	ID             int64           `json:"id,omitempty"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Description    string          `json:"description"`
	Category       model.Category  `json:"category"`
	Condition      model.Condition `json:"condition"`
	PriceCents     int64           `json:"price_cents"`
	Stock          int             `json:"stock"`
	Tags           []string        `json:"tags"`
	MainImage      string          `json:"main_image"`
	Images         []string        `json:"images"`
	IsNewArrival   bool            `json:"is_new_arrival"`
	IsLimitedStock bool            `json:"is_limited_stock"`
	IsDeal         bool            `json:"is_deal"`
	Published      bool            `json:"published"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type productListResp struct {
	Documents []productDoc `json:"documents"`
}

type remoteErrorResp struct {
	Error string `json:"error"`
}

type remoteProductStore struct {
	client *resty.Client
}

// NewRemoteProductStore 创建远程文档存储客户端
func NewRemoteProductStore(cfg RemoteStoreConfig) ProductStore {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Laptop-Catalog/1.0")
	if cfg.APIKey != "" {
		client.SetHeader("x-api-key", cfg.APIKey)
	}

	return &remoteProductStore{client: client}
}

func (s *remoteProductStore) FetchAll(ctx context.Context) ([]model.Product, error) {
	var res productListResp
	var errResp remoteErrorResp

	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&res).
		SetError(&errResp).
		Get("/products")
	if err := checkResponse(resp, err, &errResp); err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(res.Documents))
	for _, doc := range res.Documents {
		products = append(products, *doc.toModel())
	}
	return products, nil
}

func (s *remoteProductStore) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var doc productDoc
	var errResp remoteErrorResp

	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", fmt.Sprint(id)).
		SetResult(&doc).
		SetError(&errResp).
		Get("/products/{id}")
	if err := checkResponse(resp, err, &errResp); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *remoteProductStore) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	var doc productDoc
	var errResp remoteErrorResp

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(toDoc(product)).
		SetResult(&doc).
		SetError(&errResp).
		Post("/products")
	if err := checkResponse(resp, err, &errResp); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *remoteProductStore) Update(ctx context.Context, id int64, product *model.Product) (*model.Product, error) {
	var doc productDoc
	var errResp remoteErrorResp

	body := toDoc(product)
	body.ID = id

	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", fmt.Sprint(id)).
		SetBody(body).
		SetResult(&doc).
		SetError(&errResp).
		Patch("/products/{id}")
	if err := checkResponse(resp, err, &errResp); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

// ==================== 工具函数 ====================

func checkResponse(resp *resty.Response, err error, errResp *remoteErrorResp) error {
	if err != nil {
		return fmt.Errorf("远程存储请求失败: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.IsError() {
		msg := errResp.Error
		if msg == "" {
			msg = resp.String()
		}
		return fmt.Errorf("远程存储异常 [%d]: %s", resp.StatusCode(), msg)
	}
	return nil
}

func toDoc(p *model.Product) productDoc {
	return productDoc{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		Description:    p.Description,
		Category:       p.Category,
		Condition:      p.Condition,
		PriceCents:     p.PriceCents,
		Stock:          p.Stock,
		Tags:           []string(p.Tags),
		MainImage:      p.MainImage,
		Images:         p.ImageURLs(),
		IsNewArrival:   p.IsNewArrival,
		IsLimitedStock: p.IsLimitedStock,
		IsDeal:         p.IsDeal,
		Published:      p.Published,
	}
}

func (d productDoc) toModel() *model.Product {
	p := &model.Product{
		Name:           d.Name,
		Brand:          d.Brand,
		Description:    d.Description,
		Category:       d.Category,
		Condition:      d.Condition,
		PriceCents:     d.PriceCents,
		Stock:          d.Stock,
		Tags:           d.Tags,
		MainImage:      d.MainImage,
		IsNewArrival:   d.IsNewArrival,
		IsLimitedStock: d.IsLimitedStock,
		IsDeal:         d.IsDeal,
		Published:      d.Published,
	}
	p.ID = d.ID
	p.CreatedAt = d.CreatedAt
	p.UpdatedAt = d.UpdatedAt
	p.SetImageURLs(d.Images)
	return p
}
