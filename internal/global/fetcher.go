// Package global 调用远程聚合服务获取全球新闻，带健康检查、重试、熔断与结果缓存，
// 远程服务不可用时退回模拟数据。
package global

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/catlover7211/news-aggregator/internal/news"
	"github.com/catlover7211/news-aggregator/internal/simulate"
)

// engineAll 远程多引擎搜索，也是缓存键中的引擎名
const engineAll = "all"

// SimulatedMessage 使用模拟数据时的提示
const SimulatedMessage = "Search service unavailable, showing simulated results"

// 默认参数
const (
	DefaultLimit          = 30
	DefaultMaxAttempts    = 3
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryInterval  = time.Second
	DefaultCacheThreshold = 0.8
)

// Query 全球新闻查询参数
type Query struct {
	Keyword string
	Limit   int
	Lang    string
	Region  string
	Page    int
	PerPage int
}

// Options 远程调用配置
type Options struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxAttempts    int
	RetryInterval  time.Duration
	CacheThreshold float64

	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration

	// Now 缓存键与生成时间使用的时钟，默认 time.Now
	Now func() time.Time
}

// Fetcher 全球新闻抓取器
type Fetcher struct {
	opts       Options
	client     *http.Client
	cache      *Cache
	supervisor Supervisor
	generator  *simulate.Generator
	breaker    *gobreaker.CircuitBreaker[news.SearchResponse]
}

// NewFetcher 创建全球新闻抓取器
func NewFetcher(opts Options, cache *Cache, supervisor Supervisor, generator *simulate.Generator) *Fetcher {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryInterval < 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.CacheThreshold <= 0 || opts.CacheThreshold > 1 {
		opts.CacheThreshold = DefaultCacheThreshold
	}
	if opts.BreakerMaxFailures == 0 {
		opts.BreakerMaxFailures = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if cache == nil {
		cache = NewCache(DefaultCacheCapacity)
	}
	if generator == nil {
		generator = simulate.NewGenerator(simulate.WithClock(opts.Now))
	}

	maxFailures := opts.BreakerMaxFailures
	breaker := gobreaker.NewCircuitBreaker[news.SearchResponse](gobreaker.Settings{
		Name:        "search-service",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("⚡ Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Fetcher{
		opts:       opts,
		client:     &http.Client{Timeout: opts.RequestTimeout},
		cache:      cache,
		supervisor: supervisor,
		generator:  generator,
		breaker:    breaker,
	}
}

// normalize 补全查询默认值
func (q Query) normalize() Query {
	q.Keyword = strings.TrimSpace(q.Keyword)
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = news.DefaultPerPage
	}
	return q
}

// Fetch 查询全球新闻，从不向外返回错误
// 命中缓存时直接返回；远程调用全部失败时返回分页后的模拟数据，模拟数据不写入缓存
func (f *Fetcher) Fetch(ctx context.Context, q Query) (resp news.SearchResponse) {
	q = q.normalize()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Global fetch for '%s' panicked: %v", q.Keyword, r)
			resp = news.Failure(q.Page, q.PerPage, "%v: %v", news.ErrCatastrophic, r)
		}
	}()

	ctx = context.WithoutCancel(ctx)

	key := NewCacheKey(q, engineAll, f.opts.Now())
	if cached, ok := f.cache.Get(key); ok {
		log.Printf("🗃️ Cache hit: %s", key)
		return cached
	}

	f.ensureService(ctx)

	for attempt := 1; attempt <= f.opts.MaxAttempts; attempt++ {
		result, err := f.breaker.Execute(func() (news.SearchResponse, error) {
			return f.search(ctx, q)
		})
		if err == nil {
			result.GeneratedAt = f.opts.Now()
			f.cache.Put(key, result)
			log.Printf("✅ Search service returned %d results for '%s' (attempt %d)", len(result.Results), q.Keyword, attempt)
			return result
		}

		log.Printf("⚠️ Search service attempt %d/%d failed: %v", attempt, f.opts.MaxAttempts, err)
		// 熔断器打开时后续尝试都会立即失败，无需等待
		if errors.Is(err, gobreaker.ErrOpenState) {
			continue
		}
		if attempt < f.opts.MaxAttempts && f.opts.RetryInterval > 0 {
			time.Sleep(f.opts.RetryInterval)
		}
	}

	log.Printf("🎭 Search service unavailable, using simulated results for '%s'", q.Keyword)
	return f.Simulated(q.Keyword, q.Page, q.PerPage)
}

// Simulated 生成模拟数据并分页，分页信息基于完整的模拟结果集
func (f *Fetcher) Simulated(keyword string, page, perPage int) news.SearchResponse {
	all := f.generator.Generate(keyword)
	return news.SearchResponse{
		Success:    true,
		Message:    SimulatedMessage,
		Results:    news.Paginate(all, page, perPage),
		Pagination: news.NewPagination(len(all), page, perPage),
		Simulated:  true,
	}
}

// ensureService 健康检查失败时在后台尝试启动服务，不阻塞后续重试
func (f *Fetcher) ensureService(ctx context.Context) {
	if f.supervisor == nil {
		return
	}
	err := f.supervisor.Healthcheck(ctx)
	if err == nil {
		return
	}
	log.Printf("⚠️ Search service healthcheck failed: %v", err)

	go func() {
		if err := f.supervisor.Start(); err != nil {
			log.Printf("❌ Failed to start search service: %v", err)
		}
	}()
}

// MaintainCache 占用率超过阈值时清空缓存，返回是否清空
func (f *Fetcher) MaintainCache() bool {
	occupancy := f.cache.Occupancy()
	if occupancy <= f.opts.CacheThreshold {
		return false
	}
	f.cache.Clear()
	log.Printf("🧹 Result cache cleared (occupancy %.0f%% > %.0f%%)", occupancy*100, f.opts.CacheThreshold*100)
	return true
}

// BreakerState 熔断器当前状态
func (f *Fetcher) BreakerState() string {
	return f.breaker.State().String()
}

// remoteRequest POST /search/all 请求体
type remoteRequest struct {
	Keyword string `json:"keyword"`
	Limit   int    `json:"limit"`
	Lang    string `json:"lang"`
	Region  string `json:"region"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// remoteResponse 远程服务响应
type remoteResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Error        string          `json:"error"`
	Results      []remoteArticle `json:"results"`
	TotalResults int             `json:"total_results"`
	Page         int             `json:"page"`
	PerPage      int             `json:"per_page"`
	TotalPages   int             `json:"total_pages"`
}

type remoteArticle struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Snippet   string `json:"snippet"`
	Source    string `json:"source"`
	Country   string `json:"country"`
	Language  string `json:"language"`
	ImageURL  string `json:"image_url"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
}

// search 单次远程调用
func (f *Fetcher) search(ctx context.Context, q Query) (news.SearchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.RequestTimeout)
	defer cancel()

	body, err := json.Marshal(remoteRequest{
		Keyword: q.Keyword,
		Limit:   q.Limit,
		Lang:    q.Lang,
		Region:  q.Region,
		Page:    q.Page,
		PerPage: q.PerPage,
	})
	if err != nil {
		return news.SearchResponse{}, fmt.Errorf("%w: encode request: %w", news.ErrRemoteService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.opts.BaseURL+"/search/all", bytes.NewReader(body))
	if err != nil {
		return news.SearchResponse{}, fmt.Errorf("%w: create request: %w", news.ErrRemoteService, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return news.SearchResponse{}, fmt.Errorf("%w: %w", news.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return news.SearchResponse{}, fmt.Errorf("%w: status %d: %s", news.ErrRemoteService, resp.StatusCode, string(b))
	}

	var rr remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return news.SearchResponse{}, fmt.Errorf("%w: decode response: %w", news.ErrRemoteService, err)
	}
	if !rr.Success {
		msg := rr.Error
		if msg == "" {
			msg = rr.Message
		}
		return news.SearchResponse{}, fmt.Errorf("%w: service reported failure: %s", news.ErrRemoteService, msg)
	}

	return rr.toResponse(q), nil
}

// toResponse 转换为统一响应，补全来源、国家与语言
func (rr remoteResponse) toResponse(q Query) news.SearchResponse {
	articles := make([]news.Article, 0, len(rr.Results))
	for _, ra := range rr.Results {
		if ra.Link == "" {
			continue
		}
		a := news.Article{
			Source:   ra.Source,
			Country:  ra.Country,
			Language: ra.Language,
			Title:    ra.Title,
			Link:     ra.Link,
			Date:     ra.Date,
			ImageURL: ra.ImageURL,
			Snippet:  ra.Snippet,
			IsGlobal: true,
		}
		if a.Source == "" {
			a.Source = SourceFromURL(a.Link)
		}
		if a.Language == "" {
			a.Language = q.Lang
		}
		if a.Country == "" {
			a.Country = CountryFromLang(a.Language)
		}
		if a.Date == "" {
			a.Date = ra.Timestamp
		}
		articles = append(articles, a)
	}

	total := rr.TotalResults
	if total == 0 {
		total = len(articles)
	}
	page, perPage := rr.Page, rr.PerPage
	if page < 1 {
		page = q.Page
	}
	if perPage < 1 {
		perPage = q.PerPage
	}

	return news.SearchResponse{
		Success:    true,
		Message:    rr.Message,
		Results:    articles,
		Pagination: news.NewPagination(total, page, perPage),
	}
}

// UnknownSource 无法从链接解析来源时的名称
const UnknownSource = "未知來源"

// SourceFromURL 取主机名去掉 www. 后的第一段作为来源名
func SourceFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return UnknownSource
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	return strings.Split(host, ".")[0]
}

var langCountries = map[string]string{
	"zh-TW": "tw",
	"zh-CN": "cn",
	"en-US": "us",
	"en-GB": "uk",
	"ja":    "jp",
	"ko":    "kr",
	"fr":    "fr",
	"de":    "de",
	"es":    "es",
	"ru":    "ru",
}

// CountryFromLang 语言代码对应的国家代码，未知时为 global
func CountryFromLang(lang string) string {
	if c, ok := langCountries[lang]; ok {
		return c
	}
	return "global"
}
