package news

import (
	"fmt"
	"strings"
	"time"
)

// Scope 搜索范围
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
	ScopeAll    Scope = "all"
)

// DefaultPerPage 默认每页条数
const DefaultPerPage = 10

// ParseScope 解析搜索范围，空字符串视为 all
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeLocal:
		return ScopeLocal, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeAll, "":
		return ScopeAll, nil
	}
	return "", fmt.Errorf("unknown search_type %q", s)
}

// Article 新闻条目
type Article struct {
	Source   string `json:"source"`
	Country  string `json:"country"`
	Language string `json:"language"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Date     string `json:"date"`
	ImageURL string `json:"image_url"`
	Snippet  string `json:"snippet"`
	IsGlobal bool   `json:"is_global"`
}

// SearchRequest 聚合搜索请求
type SearchRequest struct {
	Keyword string `json:"keyword"`
	Scope   Scope  `json:"search_type"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// Normalize 修正非法的分页参数
func (r SearchRequest) Normalize() SearchRequest {
	r.Keyword = strings.TrimSpace(r.Keyword)
	if r.Scope == "" {
		r.Scope = ScopeAll
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage < 1 {
		r.PerPage = DefaultPerPage
	}
	return r
}

// Pagination 分页信息
type Pagination struct {
	TotalResults int `json:"total_results"`
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalPages   int `json:"total_pages"`
}

// SearchResponse 搜索响应
type SearchResponse struct {
	Success     bool       `json:"success"`
	Message     string     `json:"message,omitempty"`
	Results     []Article  `json:"results"`
	Pagination  Pagination `json:"pagination"`
	Simulated   bool       `json:"simulated,omitempty"`
	GeneratedAt time.Time  `json:"generated_at,omitzero"`
}

// Failure 构造失败响应
func Failure(page, perPage int, format string, args ...any) SearchResponse {
	return SearchResponse{
		Success:    false,
		Message:    fmt.Sprintf(format, args...),
		Results:    []Article{},
		Pagination: NewPagination(0, page, perPage),
	}
}
