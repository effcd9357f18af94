package utils

import (
	"sync"
	"time"
)

// TTLCache 带过期时间的并发安全缓存
// 读取时懒删除，Sweep 用于定时清理；V 需可比较，通常为指针
type TTLCache[V comparable] struct {
	items sync.Map // key -> cacheItem[V]
	ttl   time.Duration
	now   func() time.Time
}

// cacheItem 内部结构，包含值和过期时间
type cacheItem[V comparable] struct {
	value      V
	expiration time.Time
}

// NewTTLCache ttl <= 0 时默认 10 分钟
func NewTTLCache[V comparable](ttl time.Duration) *TTLCache[V] {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TTLCache[V]{ttl: ttl, now: time.Now}
}

// Set 设置缓存，过期时间从现在起算
func (c *TTLCache[V]) Set(key string, value V) {
	c.items.Store(key, cacheItem[V]{
		value:      value,
		expiration: c.now().Add(c.ttl),
	})
}

// Get 获取缓存并验证是否过期
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V

	val, ok := c.items.Load(key)
	if !ok {
		return zero, false
	}

	item := val.(cacheItem[V])
	if c.now().After(item.expiration) {
		c.items.CompareAndDelete(key, val)
		return zero, false
	}
	return item.value, true
}

// Touch 续期，key 不存在或已过期返回 false
func (c *TTLCache[V]) Touch(key string) bool {
	v, ok := c.Get(key)
	if !ok {
		return false
	}
	c.Set(key, v)
	return true
}

// Delete 删除缓存
func (c *TTLCache[V]) Delete(key string) {
	c.items.Delete(key)
}

// Sweep 清理所有过期项，返回清理数量
func (c *TTLCache[V]) Sweep() int {
	now := c.now()
	removed := 0
	c.items.Range(func(key, val any) bool {
		if now.After(val.(cacheItem[V]).expiration) {
			if c.items.CompareAndDelete(key, val) {
				removed++
			}
		}
		return true
	})
	return removed
}

// Len 未过期项数量
func (c *TTLCache[V]) Len() int {
	now := c.now()
	n := 0
	c.items.Range(func(_, val any) bool {
		if !now.After(val.(cacheItem[V]).expiration) {
			n++
		}
		return true
	})
	return n
}
