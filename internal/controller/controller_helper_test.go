package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"laptop_catalog/internal/model"
	"laptop_catalog/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 测试辅助 ====================

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func setupCtlTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: 每个连接是独立的库
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.ProductImage{}))
	return db
}

// seedProducts 两个已发布、一个未发布
func seedProducts(t *testing.T, repo repository.ProductRepository) {
	t.Helper()
	products := []*model.Product{
		{
			Name: "XPS 13", Brand: "Dell", Description: "轻薄本",
			Category: model.CategoryUltrabook, Condition: model.ConditionNew,
			PriceCents: 129900, Stock: 5, Tags: []string{"portable", "oled"},
			MainImage: "https://cdn.test/xps.png", IsDeal: true, Published: true,
		},
		{
			Name: "Legion 5", Brand: "Lenovo", Description: "游戏本",
			Category: model.CategoryGaming, Condition: model.ConditionNew,
			PriceCents: 149900, Stock: 2, Tags: []string{"gaming", "rgb"},
			MainImage: "https://cdn.test/legion.png", IsNewArrival: true, Published: true,
		},
		{
			Name: "Latitude 7440", Brand: "Dell",
			Category: model.CategoryLaptop, Condition: model.ConditionRefurbished,
			Tags: []string{"business"}, MainImage: "https://cdn.test/latitude.png",
		},
	}
	for _, p := range products {
		_, err := repo.Create(context.Background(), p)
		require.NoError(t, err)
	}
}

// failingStore 模拟远程存储不可用
type failingStore struct{}

var errStoreDown = errors.New("store unavailable")

func (failingStore) FetchAll(ctx context.Context) ([]model.Product, error) {
	return nil, errStoreDown
}

func (failingStore) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return nil, errStoreDown
}

func (failingStore) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	return nil, errStoreDown
}

func (failingStore) Update(ctx context.Context, id int64, p *model.Product) (*model.Product, error) {
	return nil, errStoreDown
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type uploadPart struct {
	name        string
	contentType string
	data        []byte
}

func pngPart(name string) uploadPart {
	return uploadPart{name: name, contentType: "image/png", data: []byte("\x89PNG\r\n\x1a\n" + name)}
}

// doMultipart field 下的每个 part 带上自己的 Content-Type
func doMultipart(r http.Handler, method, path, field string, parts ...uploadPart) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, p.name))
		h.Set("Content-Type", p.contentType)
		pw, _ := mw.CreatePart(h)
		_, _ = pw.Write(p.data)
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
