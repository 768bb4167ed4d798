package global

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/catlover7211/news-aggregator/internal/news"
)

func key(kw string) CacheKey {
	return CacheKey{Keyword: kw, Engine: engineAll}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Put(key("a"), news.SearchResponse{Message: "a"})
	c.Put(key("b"), news.SearchResponse{Message: "b"})

	// 访问 a 后 b 成为最久未使用
	_, ok := c.Get(key("a"))
	assert.True(t, ok)

	c.Put(key("c"), news.SearchResponse{Message: "c"})
	_, ok = c.Get(key("b"))
	assert.False(t, ok)

	got, ok := c.Get(key("a"))
	assert.True(t, ok)
	assert.Equal(t, "a", got.Message)
	assert.Equal(t, 2, c.Len())
}

func TestCachePutOverwrites(t *testing.T) {
	c := NewCache(2)
	c.Put(key("a"), news.SearchResponse{Message: "old"})
	c.Put(key("a"), news.SearchResponse{Message: "new"})

	got, _ := c.Get(key("a"))
	assert.Equal(t, "new", got.Message)
	assert.Equal(t, 1, c.Len())
}

func TestCacheOccupancyAndClear(t *testing.T) {
	c := NewCache(4)
	assert.Zero(t, c.Occupancy())

	c.Put(key("a"), news.SearchResponse{})
	c.Put(key("b"), news.SearchResponse{})
	assert.InDelta(t, 0.5, c.Occupancy(), 1e-9)

	c.Clear()
	assert.Zero(t, c.Len())
	_, ok := c.Get(key("a"))
	assert.False(t, ok)
}

func TestNewCacheDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCacheCapacity, NewCache(0).Capacity())
}

func TestCacheKeyHourBucket(t *testing.T) {
	q := Query{Keyword: "k", Limit: 30, Lang: "zh-TW", Region: "tw", Page: 1}
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, NewCacheKey(q, engineAll, base), NewCacheKey(q, engineAll, base.Add(59*time.Minute)))
	assert.NotEqual(t, NewCacheKey(q, engineAll, base), NewCacheKey(q, engineAll, base.Add(time.Hour)))

	q2 := q
	q2.Page = 2
	assert.NotEqual(t, NewCacheKey(q, engineAll, base), NewCacheKey(q2, engineAll, base))
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(50)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 100 {
				k := CacheKey{Keyword: "k", Page: (i*100 + j) % 80}
				c.Put(k, news.SearchResponse{})
				c.Get(k)
				c.Occupancy()
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}

func TestCacheDoesNotShareResults(t *testing.T) {
	c := NewCache(2)
	stored := []news.Article{{Title: "a"}, {Title: "b"}}
	c.Put(key("k"), news.SearchResponse{Results: stored})

	// 写入后修改调用方的切片不影响缓存
	stored[0].Title = "changed"

	got, ok := c.Get(key("k"))
	assert.True(t, ok)
	assert.Equal(t, "a", got.Results[0].Title)

	// 修改读出的切片同样不影响缓存
	got.Results[0], got.Results[1] = got.Results[1], got.Results[0]
	again, _ := c.Get(key("k"))
	assert.Equal(t, "a", again.Results[0].Title)
	assert.Equal(t, "b", again.Results[1].Title)
}
