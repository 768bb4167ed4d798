package source

// 本地来源的默认国家与语言
const (
	DefaultCountry  = "台灣"
	DefaultLanguage = "zh-TW"
)

// Defaults 内置的本地新闻来源表，可由配置文件 sources 段覆盖
func Defaults() []Config {
	return []Config{
		{
			Name:              "中央社",
			SearchURLTemplate: "https://www.cna.com.tw/search/hysearchws.aspx?q={keyword}",
			ArticleSelector:   "ul.mainList li",
			TitleSelector:     "h2",
			LinkSelector:      "a",
			DateSelector:      ".date",
			ImageSelector:     "img",
			BaseURL:           "https://www.cna.com.tw",
		},
		{
			Name:              "自由時報",
			SearchURLTemplate: "https://search.ltn.com.tw/list?keyword={keyword}",
			ArticleSelector:   "ul.list li",
			TitleSelector:     "a.tit",
			LinkSelector:      "a.tit",
			DateSelector:      "span.time",
			ImageSelector:     "img",
			BaseURL:           "https://news.ltn.com.tw",
		},
		{
			Name:              "聯合新聞網",
			SearchURLTemplate: "https://udn.com/search/word/2/{keyword}",
			ArticleSelector:   "div.story-list__news",
			TitleSelector:     "h2",
			LinkSelector:      "h2 a",
			DateSelector:      "time",
			ImageSelector:     "img",
			BaseURL:           "https://udn.com",
		},
		{
			Name:              "ETtoday",
			SearchURLTemplate: "https://www.ettoday.net/news_search/doSearch.php?keywords={keyword}",
			ArticleSelector:   "div.archive",
			TitleSelector:     "h2",
			LinkSelector:      "h2 a",
			DateSelector:      "span.date",
			ImageSelector:     "img",
			BaseURL:           "https://www.ettoday.net",
		},
		{
			Name:              "三立新聞網",
			SearchURLTemplate: "https://www.setn.com/search.aspx?q={keyword}",
			ArticleSelector:   "div.newsItems",
			TitleSelector:     "h3",
			LinkSelector:      "a.gt",
			DateSelector:      "time",
			ImageSelector:     "img",
			BaseURL:           "https://www.setn.com",
		},
		{
			Name:              "TVBS",
			SearchURLTemplate: "https://news.tvbs.com.tw/news/searchresult/{keyword}/news",
			ArticleSelector:   "div.search_list_div li",
			TitleSelector:     "h2",
			LinkSelector:      "a",
			DateSelector:      "div.time",
			ImageSelector:     "img",
			BaseURL:           "https://news.tvbs.com.tw",
		},
		{
			Name:              "中時新聞網",
			SearchURLTemplate: "https://www.chinatimes.com/search/{keyword}?chdtv",
			ArticleSelector:   "ul.vertical-list li",
			TitleSelector:     "h3.title",
			LinkSelector:      "h3.title a",
			DateSelector:      "time",
			ImageSelector:     "img.photo",
			BaseURL:           "https://www.chinatimes.com",
		},
		{
			Name:              "風傳媒",
			SearchURLTemplate: "https://www.storm.mg/site-search/result?q={keyword}",
			ArticleSelector:   "div.category_card",
			TitleSelector:     "h3.card_title",
			LinkSelector:      "a.card_link",
			DateSelector:      "span.info_time",
			ImageSelector:     "img.card_img",
			BaseURL:           "https://www.storm.mg",
			Render:            RenderBrowser,
		},
		{
			Name:              "東森新聞",
			SearchURLTemplate: "https://news.ebc.net.tw/search?keyword={keyword}",
			ArticleSelector:   "div.news-list-box div.style1",
			TitleSelector:     "div.title",
			LinkSelector:      "a",
			DateSelector:      "span.small-gray-text",
			ImageSelector:     "img",
			BaseURL:           "https://news.ebc.net.tw",
		},
		{
			Name:              "NOWnews",
			SearchURLTemplate: "https://www.nownews.com/search?q={keyword}",
			ArticleSelector:   "ul#moreNews li",
			TitleSelector:     "h3",
			LinkSelector:      "a",
			DateSelector:      "p.time",
			ImageSelector:     "img",
			BaseURL:           "https://www.nownews.com",
		},
		{
			Name:              "鏡週刊",
			SearchURLTemplate: "https://www.mirrormedia.mg/search/{keyword}",
			ArticleSelector:   "a.article-list-item",
			TitleSelector:     "h2",
			LinkSelector:      "",
			DateSelector:      "span.date",
			ImageSelector:     "img",
			BaseURL:           "https://www.mirrormedia.mg",
			Render:            RenderBrowser,
		},
		{
			Name:              "公視新聞網",
			SearchURLTemplate: "https://news.pts.org.tw/search/{keyword}",
			ArticleSelector:   "ul.news-list li.d-flex",
			TitleSelector:     "h2",
			LinkSelector:      "h2 a",
			DateSelector:      "time",
			ImageSelector:     "img",
			BaseURL:           "https://news.pts.org.tw",
		},
		{
			Name:              "Yahoo奇摩新聞",
			SearchURLTemplate: "https://tw.news.yahoo.com/search?p={keyword}",
			ArticleSelector:   "li.js-stream-content",
			TitleSelector:     "h3",
			LinkSelector:      "h3 a",
			DateSelector:      "time",
			ImageSelector:     "img",
			BaseURL:           "https://tw.news.yahoo.com",
		},
	}
}
