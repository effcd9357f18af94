package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ==================== KeyedLimiter 按 key 限流 ====================

// KeyedLimiter 每个 key 一个令牌桶
// 防止同一客户端短时间内反复上传图片
type KeyedLimiter struct {
	limiters sync.Map // key -> *limiterEntry
	every    rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// NewKeyedLimiter interval 内补充一个令牌，burst 为桶容量
func NewKeyedLimiter(interval time.Duration, burst int) *KeyedLimiter {
	if burst <= 0 {
		burst = 1
	}
	every := rate.Inf
	if interval > 0 {
		every = rate.Every(interval)
	}
	return &KeyedLimiter{every: every, burst: burst}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 消耗一个令牌
func (l *KeyedLimiter) Check(key string) CheckResult {
	actual, _ := l.limiters.LoadOrStore(key, &limiterEntry{
		limiter: rate.NewLimiter(l.every, l.burst),
	})
	entry := actual.(*limiterEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return CheckResult{Allowed: false}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return CheckResult{Allowed: false, RetryAfter: delay}
	}
	return CheckResult{Allowed: true}
}

// Reset 重置指定 key
func (l *KeyedLimiter) Reset(key string) {
	l.limiters.Delete(key)
}

// Prune 清理 idle 时间内没有请求的 key，返回清理数量
func (l *KeyedLimiter) Prune(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	n := 0
	l.limiters.Range(func(key, val any) bool {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		stale := entry.lastSeen.Before(cutoff)
		entry.mu.Unlock()
		if stale {
			l.limiters.Delete(key)
			n++
		}
		return true
	})
	return n
}

// ==================== Gin 中间件 ====================

// UploadRateLimit 上传限流中间件
// 优先按登录用户限流，未登录时按客户端 IP
func UploadRateLimit(l *KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if name := GetUsername(c); name != "" {
			key = "user:" + name
		}

		res := l.Check(key)
		if !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "上传过于频繁，请稍后再试",
				"data": gin.H{
					"retry_after_ms": res.RetryAfter.Milliseconds(),
				},
			})
			return
		}
		c.Next()
	}
}
