// Package aggregator 按搜索范围合并本地与全球新闻，统一排序与分页。
package aggregator

import (
	"context"
	"log"
	"slices"
	"sync"

	"github.com/catlover7211/news-aggregator/internal/global"
	"github.com/catlover7211/news-aggregator/internal/news"
)

// LocalFetcher 本地来源抓取
type LocalFetcher interface {
	FetchAll(ctx context.Context, keyword string) []news.Article
}

// GlobalFetcher 全球新闻抓取
type GlobalFetcher interface {
	Fetch(ctx context.Context, q global.Query) news.SearchResponse
	Simulated(keyword string, page, perPage int) news.SearchResponse
	MaintainCache() bool
}

// Recorder 记录搜索关键字
type Recorder interface {
	Record(ctx context.Context, keyword string, scope news.Scope) error
}

// Options 转发给远程服务的固定参数
type Options struct {
	Limit  int
	Lang   string
	Region string
}

// Aggregator 结果聚合器
type Aggregator struct {
	local    LocalFetcher
	global   GlobalFetcher
	recorder Recorder
	opts     Options
}

// New 创建聚合器，recorder 可以为 nil
func New(local LocalFetcher, glob GlobalFetcher, recorder Recorder, opts Options) *Aggregator {
	return &Aggregator{
		local:    local,
		global:   glob,
		recorder: recorder,
		opts:     opts,
	}
}

// Aggregate 执行一次聚合搜索
// 关键字为空时不发起任何抓取；意外错误转换为 success=false
func (a *Aggregator) Aggregate(ctx context.Context, req news.SearchRequest) (resp news.SearchResponse) {
	req = req.Normalize()

	if req.Keyword == "" {
		return news.Failure(req.Page, req.PerPage, "%s", news.ErrKeywordRequired)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Aggregate '%s' panicked: %v", req.Keyword, r)
			resp = news.Failure(req.Page, req.PerPage, "%v: %v", news.ErrCatastrophic, r)
		}
	}()

	scope, err := news.ParseScope(string(req.Scope))
	if err != nil {
		return news.Failure(req.Page, req.PerPage, "%v", err)
	}

	log.Printf("🔍 Search '%s' (scope=%s, page=%d, per_page=%d)", req.Keyword, scope, req.Page, req.PerPage)
	a.record(ctx, req.Keyword, scope)

	switch scope {
	case news.ScopeLocal:
		resp = a.searchLocal(ctx, req)
	case news.ScopeGlobal:
		resp = a.searchGlobal(ctx, req)
	default:
		resp = a.searchAll(ctx, req)
	}

	if resp.Results == nil {
		resp.Results = []news.Article{}
	}
	return resp
}

// searchLocal 排序完整的本地结果后再分页
func (a *Aggregator) searchLocal(ctx context.Context, req news.SearchRequest) news.SearchResponse {
	articles := a.local.FetchAll(ctx, req.Keyword)
	news.SortByDate(articles)

	return news.SearchResponse{
		Success:    true,
		Results:    news.Paginate(articles, req.Page, req.PerPage),
		Pagination: news.NewPagination(len(articles), req.Page, req.PerPage),
	}
}

// searchGlobal 远程服务报告失败时直接使用模拟数据
func (a *Aggregator) searchGlobal(ctx context.Context, req news.SearchRequest) news.SearchResponse {
	resp := a.fetchGlobal(ctx, req)
	resp.Results = slices.Clone(resp.Results)
	news.SortByDate(resp.Results)
	return resp
}

// searchAll 本地结果不分页直接并入，分页信息只来自全球结果
func (a *Aggregator) searchAll(ctx context.Context, req news.SearchRequest) news.SearchResponse {
	var (
		wg       sync.WaitGroup
		local    []news.Article
		globalRs news.SearchResponse
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		local = a.local.FetchAll(ctx, req.Keyword)
	}()
	go func() {
		defer wg.Done()
		globalRs = a.fetchGlobal(ctx, req)
	}()
	wg.Wait()

	merged := make([]news.Article, 0, len(local)+len(globalRs.Results))
	merged = append(merged, local...)
	merged = append(merged, globalRs.Results...)
	news.SortByDate(merged)

	return news.SearchResponse{
		Success:     true,
		Message:     globalRs.Message,
		Results:     merged,
		Pagination:  globalRs.Pagination,
		Simulated:   globalRs.Simulated,
		GeneratedAt: globalRs.GeneratedAt,
	}
}

// fetchGlobal 调用全球抓取器并执行缓存维护
func (a *Aggregator) fetchGlobal(ctx context.Context, req news.SearchRequest) news.SearchResponse {
	resp := a.global.Fetch(ctx, global.Query{
		Keyword: req.Keyword,
		Limit:   a.opts.Limit,
		Lang:    a.opts.Lang,
		Region:  a.opts.Region,
		Page:    req.Page,
		PerPage: req.PerPage,
	})
	a.global.MaintainCache()

	if !resp.Success {
		log.Printf("⚠️ Global search failed (%s), using simulated results", resp.Message)
		resp = a.global.Simulated(req.Keyword, req.Page, req.PerPage)
	}
	return resp
}

func (a *Aggregator) record(ctx context.Context, keyword string, scope news.Scope) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Record(ctx, keyword, scope); err != nil {
		log.Printf("⚠️ Failed to record search history: %v", err)
	}
}
