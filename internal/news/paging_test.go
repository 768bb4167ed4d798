package news

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articles(n int) []Article {
	out := make([]Article, n)
	for i := range out {
		out[i] = Article{Title: fmt.Sprintf("a%d", i), Link: fmt.Sprintf("https://x/%d", i)}
	}
	return out
}

func TestTotalPages(t *testing.T) {
	for total := 0; total <= 50; total++ {
		for perPage := 1; perPage <= 12; perPage++ {
			got := TotalPages(total, perPage)
			want := total / perPage
			if total%perPage != 0 {
				want++
			}
			require.Equal(t, want, got, "total=%d perPage=%d", total, perPage)
		}
	}
}

func TestPaginate(t *testing.T) {
	list := articles(23)

	assert.Len(t, Paginate(list, 1, 10), 10)
	assert.Len(t, Paginate(list, 3, 10), 3)
	assert.Empty(t, Paginate(list, 4, 10))
	assert.Equal(t, "a20", Paginate(list, 3, 10)[0].Title)

	// 非法参数按 1 处理
	assert.Equal(t, "a0", Paginate(list, 0, 0)[0].Title)
}

func TestPaginateDoesNotAlias(t *testing.T) {
	list := articles(5)
	page := Paginate(list, 1, 2)
	page[0].Title = "changed"
	assert.Equal(t, "a0", list[0].Title)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(21, 2, 10)
	assert.Equal(t, Pagination{TotalResults: 21, Page: 2, PerPage: 10, TotalPages: 3}, p)

	p = NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.PerPage)
	assert.Equal(t, 0, p.TotalPages)
}

func TestSortByDateDescendingLexicographic(t *testing.T) {
	list := []Article{
		{Title: "old", Date: "2024-01-02"},
		{Title: "new", Date: "2024-03-01"},
		{Title: "none", Date: ""},
		{Title: "mid", Date: "2024-02-10"},
	}
	require.True(t, SortByDate(list))

	var titles []string
	for _, a := range list {
		titles = append(titles, a.Title)
	}
	assert.Equal(t, []string{"new", "mid", "old", "none"}, titles)
}

func TestNormalize(t *testing.T) {
	req := SearchRequest{Keyword: "  AI  ", Page: -1, PerPage: 0}.Normalize()
	assert.Equal(t, "AI", req.Keyword)
	assert.Equal(t, ScopeAll, req.Scope)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, DefaultPerPage, req.PerPage)
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]Scope{"local": ScopeLocal, "GLOBAL": ScopeGlobal, "all": ScopeAll, "": ScopeAll} {
		got, err := ParseScope(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseScope("moon")
	assert.Error(t, err)
}
