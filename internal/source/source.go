// Package source 定义本地新闻来源的抓取配置与只读注册表。
package source

import (
	"fmt"
	"net/url"
	"strings"
)

// KeywordPlaceholder 搜索 URL 模板中的关键字占位符
const KeywordPlaceholder = "{keyword}"

// Render 页面加载方式
const (
	RenderHTTP    = "http"
	RenderBrowser = "browser"
)

// Config 单个来源的抓取配置，加载后不可修改
type Config struct {
	Name              string `yaml:"name"`
	SearchURLTemplate string `yaml:"search_url"`
	ArticleSelector   string `yaml:"article_selector"`
	TitleSelector     string `yaml:"title_selector"`
	LinkSelector      string `yaml:"link_selector"`
	DateSelector      string `yaml:"date_selector"`
	ImageSelector     string `yaml:"image_selector"`
	BaseURL           string `yaml:"base_url"`
	Country           string `yaml:"country"`
	Language          string `yaml:"language"`
	Render            string `yaml:"render"`
}

// SearchURL 将关键字代入模板
func (c Config) SearchURL(keyword string) string {
	return strings.ReplaceAll(c.SearchURLTemplate, KeywordPlaceholder, url.QueryEscape(keyword))
}

// UseBrowser 是否需要浏览器渲染
func (c Config) UseBrowser() bool {
	return strings.EqualFold(c.Render, RenderBrowser)
}

// Validate 检查必填字段
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("source name is empty")
	case !strings.Contains(c.SearchURLTemplate, KeywordPlaceholder):
		return fmt.Errorf("source %s: search_url must contain %s", c.Name, KeywordPlaceholder)
	case c.ArticleSelector == "":
		return fmt.Errorf("source %s: article_selector is empty", c.Name)
	case c.BaseURL == "":
		return fmt.Errorf("source %s: base_url is empty", c.Name)
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source %s: invalid base_url %q", c.Name, c.BaseURL)
	}
	return nil
}

// Registry 来源注册表（只读）
type Registry struct {
	sources []Config
	byName  map[string]Config
}

// NewRegistry 创建注册表，跳过非法或重名的来源
func NewRegistry(configs []Config) (*Registry, []error) {
	r := &Registry{byName: make(map[string]Config, len(configs))}
	var errs []error
	for _, c := range configs {
		if c.Country == "" {
			c.Country = DefaultCountry
		}
		if c.Language == "" {
			c.Language = DefaultLanguage
		}
		if c.Render == "" {
			c.Render = RenderHTTP
		}
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := r.byName[c.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate source %s", c.Name))
			continue
		}
		r.byName[c.Name] = c
		r.sources = append(r.sources, c)
	}
	return r, errs
}

// Lookup 按名称查找来源
func (r *Registry) Lookup(name string) (Config, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// All 按声明顺序返回全部来源的副本
func (r *Registry) All() []Config {
	out := make([]Config, len(r.sources))
	copy(out, r.sources)
	return out
}

// Names 返回全部来源名称
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for _, c := range r.sources {
		names = append(names, c.Name)
	}
	return names
}

// Len 来源数量
func (r *Registry) Len() int {
	return len(r.sources)
}
