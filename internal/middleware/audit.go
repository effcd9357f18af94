package middleware

import (
	"context"
	"reflect"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ==================== 审计上下文 ====================

// AuditContext Key
type auditContextKey struct{}

// WithAuditUser 注入操作人到 context
func WithAuditUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, auditContextKey{}, username)
}

// GetAuditUser 从 context 获取操作人
func GetAuditUser(ctx context.Context) string {
	if name, ok := ctx.Value(auditContextKey{}).(string); ok {
		return name
	}
	return ""
}

// ==================== Gin 中间件 ====================

// AuditContext 审计上下文中间件
// 将 JWT 中的用户名注入到 request context，供 GORM 回调使用
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if username := GetUsername(c); username != "" {
			c.Request = c.Request.WithContext(WithAuditUser(c.Request.Context(), username))
		}
		c.Next()
	}
}

// ==================== GORM 回调 ====================

// RegisterAuditCallbacks 注册 GORM 审计回调
// Create/Update 时自动填充 UpdatedBy
func RegisterAuditCallbacks(db *gorm.DB) error {
	fill := func(tx *gorm.DB) {
		if tx.Statement.Context == nil {
			return
		}
		username := GetAuditUser(tx.Statement.Context)
		if username == "" {
			return
		}
		setAuditField(tx, "UpdatedBy", username)
	}

	if err := db.Callback().Create().Before("gorm:create").Register("audit:create", fill); err != nil {
		return err
	}
	return db.Callback().Update().Before("gorm:update").Register("audit:update", fill)
}

// setAuditField 在写入目标上设置审计字段
// Updates(&struct) 时目标是 Dest 而不是 Model，所以这里取 Dest
func setAuditField(tx *gorm.DB, fieldName string, value string) {
	if tx.Statement.Schema == nil || tx.Statement.Dest == nil {
		return
	}

	field := tx.Statement.Schema.LookUpField(fieldName)
	if field == nil {
		return
	}

	rv := reflect.Indirect(reflect.ValueOf(tx.Statement.Dest))
	switch rv.Kind() {
	case reflect.Struct:
		if rv.Type() != tx.Statement.Schema.ModelType || !rv.CanAddr() {
			return
		}
		_ = field.Set(tx.Statement.Context, rv, value)
	case reflect.Slice:
		// 批量插入
		for i := 0; i < rv.Len(); i++ {
			elem := reflect.Indirect(rv.Index(i))
			if elem.Kind() == reflect.Struct && elem.Type() == tx.Statement.Schema.ModelType {
				_ = field.Set(tx.Statement.Context, elem, value)
			}
		}
	}
}
