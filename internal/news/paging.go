package news

import (
	"log"
	"sort"
)

// TotalPages 计算总页数 ceil(total/perPage)
func TotalPages(total, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	if total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// NewPagination 构造分页信息
func NewPagination(total, page, perPage int) Pagination {
	if perPage < 1 {
		perPage = 1
	}
	if page < 1 {
		page = 1
	}
	return Pagination{
		TotalResults: total,
		Page:         page,
		PerPage:      perPage,
		TotalPages:   TotalPages(total, perPage),
	}
}

// Paginate 按 (page, perPage) 截取切片，越界返回空切片
func Paginate(articles []Article, page, perPage int) []Article {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	start := (page - 1) * perPage
	if start >= len(articles) {
		return []Article{}
	}
	end := start + perPage
	if end > len(articles) {
		end = len(articles)
	}
	out := make([]Article, end-start)
	copy(out, articles[start:end])
	return out
}

// SortByDate 按 date 字段字典序降序排序，失败时保留原顺序
func SortByDate(articles []Article) (sorted bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ Sort by date failed, keeping original order: %v", r)
			sorted = false
		}
	}()

	tmp := make([]Article, len(articles))
	copy(tmp, articles)
	sort.SliceStable(tmp, func(i, j int) bool {
		return tmp[i].Date > tmp[j].Date
	})
	copy(articles, tmp)
	return true
}
