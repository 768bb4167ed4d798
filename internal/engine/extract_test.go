package engine

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catlover7211/news-aggregator/internal/source"
)

const listingHTML = `<html><body>
<ul class="results">
  <li class="item">
    <h3><a href="/news/123.html">  台積電   擴大 AI 投資 </a></h3>
    <span class="date">2024-06-01 10:00</span>
    <img data-src="/img/lazy.jpg" data-original="/img/orig.jpg" src="/img/placeholder.gif">
    <div class="summary">法說會重點整理</div>
    <p>段落內容</p>
  </li>
  <li class="item">
    <h3><a href="https://other.example/a/9">外部連結新聞</a></h3>
    <time datetime="2024-05-30T08:00:00+08:00"></time>
    <img src="//cdn.example.com/pic.png">
    <p>只有段落</p>
  </li>
  <li class="item">
    <h3><a href="/news/no-title.html"></a></h3>
  </li>
  <li class="item">
    <h3><a href="javascript:void(0)">沒有連結</a></h3>
  </li>
  <li class="item">
    <h3><a href="news/5.html">第五則</a></h3>
    <div class="excerpt">摘要片段</div>
  </li>
  <li class="item">
    <h3><a href="/news/6.html">第六則不應出現</a></h3>
  </li>
</ul>
</body></html>`

func testSource() source.Config {
	return source.Config{
		Name:            "測試新聞",
		ArticleSelector: "li.item",
		TitleSelector:   "h3",
		LinkSelector:    "h3 a",
		DateSelector:    ".date, time",
		ImageSelector:   "img",
		BaseURL:         "https://example.com/",
		Country:         "台灣",
		Language:        "zh-TW",
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract(t *testing.T) {
	articles := Extract(parse(t, listingHTML), testSource(), 5)

	// 五个候选中两个缺少标题或链接被丢弃，第六个超出上限
	require.Len(t, articles, 3)

	first := articles[0]
	assert.Equal(t, "台積電 擴大 AI 投資", first.Title)
	assert.Equal(t, "https://example.com/news/123.html", first.Link)
	assert.Equal(t, "2024-06-01 10:00", first.Date)
	assert.Equal(t, "https://example.com/img/lazy.jpg", first.ImageURL)
	assert.Equal(t, "法說會重點整理", first.Snippet)
	assert.Equal(t, "測試新聞", first.Source)
	assert.Equal(t, "台灣", first.Country)
	assert.Equal(t, "zh-TW", first.Language)
	assert.False(t, first.IsGlobal)

	second := articles[1]
	assert.Equal(t, "https://other.example/a/9", second.Link)
	assert.Equal(t, "2024-05-30T08:00:00+08:00", second.Date)
	assert.Equal(t, "https://cdn.example.com/pic.png", second.ImageURL)
	assert.Equal(t, "只有段落", second.Snippet)

	third := articles[2]
	assert.Equal(t, "https://example.com/news/5.html", third.Link)
	assert.Equal(t, "摘要片段", third.Snippet)
	assert.Empty(t, third.ImageURL)
	assert.Empty(t, third.Date)
}

func TestExtractCandidateIsLink(t *testing.T) {
	html := `<div><a class="card" href="/story/1"><h2>標題一</h2></a><a class="card" href="/story/2"><h2>標題二</h2></a></div>`
	src := testSource()
	src.ArticleSelector = "a.card"
	src.TitleSelector = "h2"
	src.LinkSelector = ""

	articles := Extract(parse(t, html), src, 5)
	require.Len(t, articles, 2)
	assert.Equal(t, "https://example.com/story/2", articles[1].Link)
}

func TestExtractNoCandidates(t *testing.T) {
	assert.Empty(t, Extract(parse(t, "<html><body></body></html>"), testSource(), 5))
}

func TestImagePriority(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"data-src first", `<img data-src="a.jpg" data-original="b.jpg" src="c.jpg">`, "a.jpg"},
		{"data-original second", `<img data-original="b.jpg" src="c.jpg">`, "b.jpg"},
		{"src last", `<img src="c.jpg">`, "c.jpg"},
		{"blank data-src skipped", `<img data-src=" " src="c.jpg">`, "c.jpg"},
		{"none", `<img>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := parse(t, tt.html).Find("img").First()
			assert.Equal(t, tt.want, extractImage(img))
		})
	}
}

func TestSnippetTruncated(t *testing.T) {
	long := strings.Repeat("新", 400)
	s := parse(t, `<div><p>`+long+`</p></div>`).Find("div")
	snippet := extractSnippet(s)
	assert.Equal(t, maxSnippetRunes, len([]rune(snippet)))
	assert.True(t, strings.HasSuffix(snippet, "..."))
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"https://example.com", "/news/123.html", "https://example.com/news/123.html"},
		{"https://example.com/", "/news/123.html", "https://example.com/news/123.html"},
		{"https://example.com", "news/1", "https://example.com/news/1"},
		{"https://example.com", "https://a.test/x", "https://a.test/x"},
		{"http://example.com", "//cdn.test/p.png", "http://cdn.test/p.png"},
		{"https://example.com", "", ""},
		{"https://example.com", "#", ""},
		{"https://example.com", "JavaScript:void(0)", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveURL(tt.base, tt.ref), tt.ref)
	}
}
