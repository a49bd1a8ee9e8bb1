package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// PageCache caches listing render data keyed by request URL. It is only a
// read-side shortcut: callers must behave the same when it is nil.
type PageCache interface {
	Get(key string) interface{}
	Set(key string, data interface{}, ttl time.Duration)
	Delete(key string)
	Purge()
}

// CacheItem 包装缓存数据和过期时间
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// LRUCache is a size-bounded PageCache with per-entry expiry.
type LRUCache struct {
	lruCache *lru.Cache[string, CacheItem]
	now      func() time.Time
}

// NewLRUCache creates a cache holding at most size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{lruCache: l, now: time.Now}, nil
}

// Set 设置缓存，TTL 为过期时间
func (c *LRUCache) Set(key string, data interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *LRUCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Delete 删除指定缓存
func (c *LRUCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Purge drops every entry.
func (c *LRUCache) Purge() {
	c.lruCache.Purge()
}
