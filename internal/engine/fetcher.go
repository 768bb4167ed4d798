// Package engine 实现本地新闻来源的并行抓取与字段抽取。
package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/catlover7211/news-aggregator/internal/news"
	"github.com/catlover7211/news-aggregator/internal/source"
)

// 默认抓取参数
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxPerSource = 5
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Renderer 渲染需要执行 JavaScript 的页面，返回完整 HTML
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// Options 抓取器配置
type Options struct {
	Timeout      time.Duration
	MaxPerSource int
	UserAgent    string
	ProxyURL     string
	// Renderer 为空时 render=browser 的来源退回 HTTP 抓取
	Renderer Renderer
}

// Fetcher 本地来源抓取器
type Fetcher struct {
	registry     *source.Registry
	client       *http.Client
	renderer     Renderer
	userAgent    string
	timeout      time.Duration
	maxPerSource int
}

// NewFetcher 创建本地来源抓取器
func NewFetcher(registry *source.Registry, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxPerSource <= 0 {
		opts.MaxPerSource = DefaultMaxPerSource
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	jar, _ := cookiejar.New(nil)

	transport := &http.Transport{}
	if opts.ProxyURL != "" {
		if proxy, err := url.Parse(opts.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxy)
		}
	}

	client := &http.Client{
		Timeout:   opts.Timeout,
		Jar:       jar,
		Transport: transport,
	}

	return &Fetcher{
		registry:     registry,
		client:       client,
		renderer:     opts.Renderer,
		userAgent:    opts.UserAgent,
		timeout:      opts.Timeout,
		maxPerSource: opts.MaxPerSource,
	}
}

// Sources 返回已注册的来源名称
func (f *Fetcher) Sources() []string {
	return f.registry.Names()
}

// FetchAll 并行抓取全部来源，单个来源失败只影响该来源
// 调用方的取消不会传递给已启动的抓取任务，每个任务只受自身超时约束
func (f *Fetcher) FetchAll(ctx context.Context, keyword string) []news.Article {
	ctx = context.WithoutCancel(ctx)

	var (
		allArticles []news.Article
		wg          sync.WaitGroup
		mu          sync.Mutex
		failed      int
	)

	sources := f.registry.All()
	for _, src := range sources {
		wg.Add(1)
		go func(src source.Config) {
			defer wg.Done()

			articles, err := f.FetchSource(ctx, src, keyword)
			if err != nil {
				log.Printf("❌ Fetch from %s failed: %v", src.Name, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			allArticles = append(allArticles, articles...)
			mu.Unlock()

			log.Printf("✅ %s returned %d articles", src.Name, len(articles))
		}(src)
	}

	wg.Wait()

	log.Printf("📰 Local search '%s': %d articles from %d/%d sources", keyword, len(allArticles), len(sources)-failed, len(sources))
	return allArticles
}

// FetchSource 抓取单个来源，任何错误（包括 panic）都转换为 ErrSourceFetch
func (f *Fetcher) FetchSource(ctx context.Context, src source.Config, keyword string) (articles []news.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			articles = nil
			err = fmt.Errorf("%w: %s: panic: %v", news.ErrSourceFetch, src.Name, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	pageURL := src.SearchURL(keyword)
	html, err := f.load(ctx, src, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", news.ErrSourceFetch, src.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: parse HTML failed: %w", news.ErrSourceFetch, src.Name, err)
	}

	return Extract(doc, src, f.maxPerSource), nil
}

// load 按来源配置选择浏览器渲染或 HTTP 抓取
func (f *Fetcher) load(ctx context.Context, src source.Config, pageURL string) (string, error) {
	if src.UseBrowser() && f.renderer != nil {
		html, err := f.renderer.Render(ctx, pageURL)
		if err == nil {
			return html, nil
		}
		log.Printf("⚠️ Browser render for %s failed, falling back to HTTP: %v", src.Name, err)
	}
	return f.get(ctx, pageURL)
}

// get 发送 HTTP GET 请求并返回响应体
func (f *Fetcher) get(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}

	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body failed: %w", err)
	}

	return string(body), nil
}

// setHeaders 设置请求头
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
}
