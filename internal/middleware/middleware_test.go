package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"laptop_catalog/internal/config"
	"laptop_catalog/internal/model"
	"laptop_catalog/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWT() *JWTManager {
	return NewJWTManager(config.AuthConfig{
		SecretKey: "test-secret",
		Issuer:    "laptop-catalog-test",
		TokenTTL:  time.Hour,
	})
}

// ==================== JWT ====================

func TestJWTManager_RoundTrip(t *testing.T) {
	m := testJWT()

	token, err := m.Generate("alice", RoleAdmin)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "access", claims.Subject)
}

func TestJWTManager_RejectsForeignToken(t *testing.T) {
	other := NewJWTManager(config.AuthConfig{SecretKey: "other", Issuer: "laptop-catalog-test"})
	token, err := other.Generate("mallory", RoleAdmin)
	require.NoError(t, err)

	_, err = testJWT().Parse(token)
	assert.Error(t, err)

	wrongIssuer := NewJWTManager(config.AuthConfig{SecretKey: "test-secret", Issuer: "someone-else"})
	token, err = wrongIssuer.Generate("mallory", RoleAdmin)
	require.NoError(t, err)
	_, err = testJWT().Parse(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := testJWT()
	claims := &AdminClaims{
		Username: "alice",
		Role:     RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "laptop-catalog-test",
			Subject:   "access",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func newAuthRouter(m *JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/admin", JWTAuth(m), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetUsername(c)})
	})
	return r
}

func TestJWTAuth_Middleware(t *testing.T) {
	m := testJWT()
	r := newAuthRouter(m)

	adminToken, _ := m.Generate("alice", RoleAdmin)
	viewerToken, _ := m.Generate("bob", "viewer")

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"缺少 Header", "", http.StatusUnauthorized},
		{"格式错误", "Token " + adminToken, http.StatusUnauthorized},
		{"无效 Token", "Bearer not-a-token", http.StatusUnauthorized},
		{"角色不足", "Bearer " + viewerToken, http.StatusForbidden},
		{"管理员", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

// ==================== 限流 ====================

func TestKeyedLimiter_Check(t *testing.T) {
	l := NewKeyedLimiter(time.Hour, 2)

	assert.True(t, l.Check("a").Allowed)
	assert.True(t, l.Check("a").Allowed)

	res := l.Check("a")
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// 不同 key 互不影响
	assert.True(t, l.Check("b").Allowed)

	l.Reset("a")
	assert.True(t, l.Check("a").Allowed)
}

func TestKeyedLimiter_Prune(t *testing.T) {
	l := NewKeyedLimiter(time.Second, 1)
	l.Check("a")
	l.Check("b")

	assert.Equal(t, 0, l.Prune(time.Hour))
	assert.Equal(t, 2, l.Prune(0))
}

func TestUploadRateLimit_Middleware(t *testing.T) {
	r := gin.New()
	r.POST("/upload", UploadRateLimit(NewKeyedLimiter(time.Hour, 1)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, do().Code)

	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "429")
}

// ==================== 审计 ====================

func setupAuditDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.ProductImage{}))
	require.NoError(t, RegisterAuditCallbacks(db))
	return db
}

func TestAuditCallbacks_FillUpdatedBy(t *testing.T) {
	repo := repository.NewProductRepository(setupAuditDB(t))

	p := &model.Product{Name: "XPS 13", Brand: "Dell", MainImage: "m"}
	p.SetImageURLs([]string{"a", "b"})

	created, err := repo.Create(WithAuditUser(context.Background(), "alice"), p)
	require.NoError(t, err)
	assert.Equal(t, "alice", created.UpdatedBy)
	assert.Equal(t, []string{"a", "b"}, created.ImageURLs())

	update := &model.Product{Name: "XPS 13 Plus", Brand: "Dell", MainImage: "m"}
	updated, err := repo.Update(WithAuditUser(context.Background(), "bob"), created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "bob", updated.UpdatedBy)
	assert.Equal(t, "XPS 13 Plus", updated.Name)
}

func TestAuditContext_Middleware(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/", func(c *gin.Context) {
		c.Set(ContextKeyUsername, "alice")
	}, AuditContext(), func(c *gin.Context) {
		got = GetAuditUser(c.Request.Context())
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "alice", got)
	assert.Empty(t, GetAuditUser(context.Background()))
}
