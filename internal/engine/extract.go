package engine

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/catlover7211/news-aggregator/internal/news"
	"github.com/catlover7211/news-aggregator/internal/source"
)

// maxSnippetRunes 摘要最大长度
const maxSnippetRunes = 300

// 图片地址属性，懒加载属性优先
var imageAttrs = []string{"data-src", "data-original", "src"}

// 摘要选择器回退链
var snippetSelectors = []string{".summary", ".excerpt", "p"}

// Extract 从搜索结果页中抽取文章，只处理前 limit 个候选节点
func Extract(doc *goquery.Document, src source.Config, limit int) []news.Article {
	candidates := doc.Find(src.ArticleSelector)
	if limit > 0 && candidates.Length() > limit {
		candidates = candidates.Slice(0, limit)
	}

	var articles []news.Article
	candidates.Each(func(i int, s *goquery.Selection) {
		if article, ok := extractArticle(s, src); ok {
			articles = append(articles, article)
		}
	})
	return articles
}

// extractArticle 解析单个候选节点，缺少标题或链接时丢弃
func extractArticle(s *goquery.Selection, src source.Config) (news.Article, bool) {
	title := cleanText(pick(s, src.TitleSelector).Text())
	if title == "" {
		return news.Article{}, false
	}

	link := ResolveURL(src.BaseURL, extractHref(pick(s, src.LinkSelector)))
	if link == "" {
		return news.Article{}, false
	}

	image := ""
	if src.ImageSelector != "" {
		image = ResolveURL(src.BaseURL, extractImage(s.Find(src.ImageSelector).First()))
	}

	return news.Article{
		Source:   src.Name,
		Country:  src.Country,
		Language: src.Language,
		Title:    title,
		Link:     link,
		Date:     extractDate(s, src.DateSelector),
		ImageURL: image,
		Snippet:  extractSnippet(s),
		IsGlobal: false,
	}, true
}

// pick 选择器为空时返回候选节点本身
func pick(s *goquery.Selection, selector string) *goquery.Selection {
	if selector == "" {
		return s
	}
	return s.Find(selector).First()
}

// extractHref 读取 href，节点本身没有时查找其内部第一个链接
func extractHref(s *goquery.Selection) string {
	if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
		return href
	}
	href, _ := s.Find("a[href]").First().Attr("href")
	return href
}

// extractImage 依次读取 data-src、data-original、src
func extractImage(s *goquery.Selection) string {
	for _, attr := range imageAttrs {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// extractDate 日期保持来源页面的原始文本
func extractDate(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	el := s.Find(selector).First()
	if text := cleanText(el.Text()); text != "" {
		return text
	}
	datetime, _ := el.Attr("datetime")
	return strings.TrimSpace(datetime)
}

// extractSnippet 按 .summary → .excerpt → p 的顺序取摘要
func extractSnippet(s *goquery.Selection) string {
	for _, sel := range snippetSelectors {
		if text := cleanText(s.Find(sel).First().Text()); text != "" {
			return truncate(text, maxSnippetRunes)
		}
	}
	return ""
}

// ResolveURL 相对地址加上来源的 baseURL，绝对地址保持不变
func ResolveURL(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "#" || strings.HasPrefix(strings.ToLower(ref), "javascript:") {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return ref
	}

	base := strings.TrimRight(baseURL, "/")
	if strings.HasPrefix(ref, "//") {
		scheme := "https"
		if u, err := url.Parse(base); err == nil && u.Scheme != "" {
			scheme = u.Scheme
		}
		return scheme + ":" + ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return base + ref
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
