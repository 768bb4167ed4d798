package global

import (
	"container/list"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/catlover7211/news-aggregator/internal/news"
)

// DefaultCacheCapacity 默认缓存容量
const DefaultCacheCapacity = 100

// CacheKey 远程结果缓存键，HourBucket 使缓存自然按小时失效
type CacheKey struct {
	Keyword    string
	Engine     string
	Limit      int
	Lang       string
	Region     string
	Page       int
	HourBucket int64
}

// NewCacheKey 以 t 所在的整点小时计算缓存键
func NewCacheKey(q Query, engine string, t time.Time) CacheKey {
	return CacheKey{
		Keyword:    q.Keyword,
		Engine:     engine,
		Limit:      q.Limit,
		Lang:       q.Lang,
		Region:     q.Region,
		Page:       q.Page,
		HourBucket: t.Unix() / 3600,
	}
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%s:%s:%d:%d", k.Engine, k.Keyword, k.Limit, k.Lang, k.Region, k.Page, k.HourBucket)
}

type cacheEntry struct {
	key   CacheKey
	value news.SearchResponse
}

// Cache 容量有限的 LRU 结果缓存，可被多个请求并发使用
type Cache struct {
	capacity int

	mu    sync.Mutex
	items map[CacheKey]*list.Element
	order *list.List // 最近使用的在尾部
}

// NewCache 创建 LRU 缓存，capacity 小于 1 时使用默认容量
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		items:    make(map[CacheKey]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get 查询缓存并刷新使用顺序
func (c *Cache) Get(key CacheKey) (news.SearchResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return news.SearchResponse{}, false
	}
	c.order.MoveToBack(elem)
	return cloneResponse(elem.Value.(*cacheEntry).value), true
}

// Put 写入缓存，已满时淘汰最久未使用的条目
func (c *Cache) Put(key CacheKey, value news.SearchResponse) {
	value = cloneResponse(value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToBack(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}

	c.items[key] = c.order.PushBack(&cacheEntry{key: key, value: value})
}

// Len 当前条目数
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Capacity 缓存容量
func (c *Cache) Capacity() int {
	return c.capacity
}

// Occupancy 占用率，取值 0 到 1
func (c *Cache) Occupancy() float64 {
	return float64(c.Len()) / float64(c.capacity)
}

// Clear 清空缓存
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[CacheKey]*list.Element, c.capacity)
	c.order.Init()
}

// cloneResponse 复制结果切片，调用方与缓存条目互不共享底层数组
func cloneResponse(resp news.SearchResponse) news.SearchResponse {
	resp.Results = slices.Clone(resp.Results)
	return resp
}
