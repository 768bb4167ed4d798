package simulate

// Profile 模拟来源
type Profile struct {
	Source   string
	Country  string
	Language string
	Domain   string
}

// Languages 生成语言，顺序即生成顺序
var Languages = []string{"zh-TW", "en-US", "ja", "ko"}

var profiles = map[string][]Profile{
	"zh-TW": {
		{"聯合報", "台灣", "zh-TW", "udn.com"},
		{"自由時報", "台灣", "zh-TW", "ltn.com.tw"},
		{"中央社", "台灣", "zh-TW", "cna.com.tw"},
		{"香港01", "香港", "zh-TW", "hk01.com"},
		{"明報", "香港", "zh-TW", "mingpao.com"},
		{"聯合早報", "新加坡", "zh-TW", "zaobao.com.sg"},
	},
	"en-US": {
		{"Reuters", "英國", "en-US", "reuters.com"},
		{"BBC News", "英國", "en-US", "bbc.com"},
		{"The New York Times", "美國", "en-US", "nytimes.com"},
		{"CNN", "美國", "en-US", "cnn.com"},
		{"Bloomberg", "美國", "en-US", "bloomberg.com"},
		{"The Guardian", "英國", "en-US", "theguardian.com"},
	},
	"ja": {
		{"NHK", "日本", "ja", "nhk.or.jp"},
		{"朝日新聞", "日本", "ja", "asahi.com"},
		{"読売新聞", "日本", "ja", "yomiuri.co.jp"},
		{"日本経済新聞", "日本", "ja", "nikkei.com"},
		{"毎日新聞", "日本", "ja", "mainichi.jp"},
	},
	"ko": {
		{"조선일보", "韓國", "ko", "chosun.com"},
		{"중앙일보", "韓國", "ko", "joongang.co.kr"},
		{"연합뉴스", "韓國", "ko", "yna.co.kr"},
		{"KBS 뉴스", "韓國", "ko", "news.kbs.co.kr"},
		{"한겨레", "韓國", "ko", "hani.co.kr"},
	},
}

// 标题模板，%s 为关键字
var titleTemplates = map[string][]string{
	"zh-TW": {
		"%s最新動態：各界關注後續發展",
		"專家解析%s對產業的深遠影響",
		"%s引發熱議，官方回應了",
		"一次看懂%s：五大重點整理",
		"%s持續延燒，市場反應兩極",
	},
	"en-US": {
		"%s: What You Need to Know Today",
		"Experts Weigh In on the Future of %s",
		"%s Sparks Debate Across the Industry",
		"Inside the Latest Developments on %s",
		"Why %s Matters More Than Ever",
	},
	"ja": {
		"%sの最新動向、専門家が分析",
		"%sをめぐる議論が活発化",
		"%sが市場に与える影響とは",
		"速報：%sに関する新たな発表",
	},
	"ko": {
		"%s 최신 동향, 전문가 분석",
		"%s 둘러싼 논란 확산",
		"%s가 시장에 미치는 영향은",
		"속보: %s 관련 새로운 발표",
	},
}

// 摘要模板，%s 为关键字
var snippetTemplates = map[string][]string{
	"zh-TW": {
		"針對%s的最新消息，多位學者與業界人士提出看法，認為短期內仍有變數。",
		"%s成為近期焦點，相關單位表示將持續關注並適時說明。",
		"隨著%s議題升溫，民眾對後續影響高度關注。",
	},
	"en-US": {
		"The latest reports on %s have drawn reactions from analysts and officials alike.",
		"As %s continues to make headlines, observers expect further announcements soon.",
		"A closer look at %s reveals a complex picture with no easy answers.",
	},
	"ja": {
		"%sに関する最新の報道を受け、関係者からさまざまな声が上がっている。",
		"%sをめぐり、今後の動向に注目が集まっている。",
	},
	"ko": {
		"%s에 대한 최신 보도에 전문가들의 다양한 의견이 나오고 있다.",
		"%s를 둘러싼 향후 전망에 관심이 집중되고 있다.",
	},
}
