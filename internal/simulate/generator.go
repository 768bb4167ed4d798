// Package simulate 在远程聚合服务不可用时按关键字生成确定性的模拟新闻。
package simulate

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/catlover7211/news-aggregator/internal/news"
)

// 生成参数
const (
	maxProfilesPerLanguage = 4
	minArticlesPerProfile  = 1
	maxArticlesPerProfile  = 3
	dateWindow             = 30 * 24 * time.Hour
	dateLayout             = "2006-01-02 15:04"
)

// Generator 模拟新闻生成器
type Generator struct {
	now func() time.Time
}

// Option 生成器选项
type Option func(*Generator)

// WithClock 替换时钟，便于测试
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator 创建模拟新闻生成器
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// seed 关键字的稳定哈希
func seed(keyword string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(keyword))
	return h.Sum64()
}

// Generate 生成关键字对应的全部模拟新闻
// 同一关键字在同一小时内的结果完全相同
func (g *Generator) Generate(keyword string) []news.Article {
	s := seed(keyword)
	r := rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
	base := g.now().Truncate(time.Hour)

	var articles []news.Article
	for _, lang := range Languages {
		candidates := profiles[lang]
		n := min(maxProfilesPerLanguage, len(candidates))
		n = 2 + r.IntN(n-1)
		for _, idx := range r.Perm(len(candidates))[:n] {
			p := candidates[idx]
			count := minArticlesPerProfile + r.IntN(maxArticlesPerProfile-minArticlesPerProfile+1)
			for range count {
				articles = append(articles, g.article(r, base, p, keyword))
			}
		}
	}

	r.Shuffle(len(articles), func(i, j int) {
		articles[i], articles[j] = articles[j], articles[i]
	})
	return articles
}

// article 合成单条新闻，链接和图片只用于展示
func (g *Generator) article(r *rand.Rand, base time.Time, p Profile, keyword string) news.Article {
	published := base.Add(-time.Duration(r.Int64N(int64(dateWindow))))
	id := 100000 + r.IntN(900000)
	titles := titleTemplates[p.Language]
	snippets := snippetTemplates[p.Language]

	return news.Article{
		Source:   p.Source,
		Country:  p.Country,
		Language: p.Language,
		Title:    fmt.Sprintf(titles[r.IntN(len(titles))], keyword),
		Link:     fmt.Sprintf("https://%s/news/%s/%d", p.Domain, published.Format("20060102"), id),
		Date:     published.Format(dateLayout),
		ImageURL: fmt.Sprintf("https://%s/images/%s/%d.jpg", p.Domain, published.Format("200601"), id),
		Snippet:  fmt.Sprintf(snippets[r.IntN(len(snippets))], keyword),
		IsGlobal: true,
	}
}
