package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCache(ttl time.Duration) (*TTLCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string](ttl)
	c.now = clock.Now
	return c, clock
}

func TestTTLCache_SetGet(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("k", "v")
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestTTLCache_Expiration(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("k", "v")

	clock.Advance(59 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_Touch(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("k", "v")

	clock.Advance(50 * time.Second)
	assert.True(t, c.Touch("k"))

	clock.Advance(50 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "续期后应仍然有效")

	assert.False(t, c.Touch("missing"))
}

func TestTTLCache_SweepAndDelete(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	clock.Advance(30 * time.Second)
	c.Set("c", "3")

	clock.Advance(45 * time.Second)
	assert.Equal(t, 2, c.Sweep())
	assert.Equal(t, 1, c.Len())

	c.Delete("c")
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_DefaultTTL(t *testing.T) {
	c := NewTTLCache[*int](0)
	assert.Equal(t, 10*time.Minute, c.ttl)
}
