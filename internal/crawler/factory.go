package crawler

import (
	"sort"
	"sync"

	"sjsage522/newsworker/logger"
	crawlerrors "sjsage522/newsworker/pkg/errors"
)

// Factory builds crawlers from named presets
type Factory struct {
	mu      sync.RWMutex
	presets map[string]CrawlerConfig
	opts    Options
}

// NewFactory creates a factory holding the built-in presets
func NewFactory(opts Options) *Factory {
	f := &Factory{
		presets: make(map[string]CrawlerConfig),
		opts:    opts,
	}
	for _, cfg := range presetConfigs() {
		f.presets[cfg.Newspaper] = cfg
	}
	return f
}

// Options returns the runtime options crawlers are built with
func (f *Factory) Options() Options {
	return f.opts
}

// Create builds the crawler for newspaper from its current preset. Newspapers
// with a dedicated adapter get that adapter, configured by the preset.
func (f *Factory) Create(newspaper string) (Crawler, error) {
	cfg, ok := f.Preset(newspaper)
	if !ok {
		return nil, crawlerrors.NewLookup(newspaper)
	}
	if build, ok := adapterFor(newspaper); ok {
		return build(cfg, f.opts), nil
	}
	return NewConfigurableCrawler(cfg, f.opts), nil
}

// CreateCustom builds a crawler from an ad-hoc configuration
func (f *Factory) CreateCustom(cfg CrawlerConfig) (Crawler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, crawlerrors.NewValidation(cfg.Newspaper, err.Error())
	}
	return NewConfigurableCrawler(cfg, f.opts), nil
}

// Preset returns the configuration registered under newspaper
func (f *Factory) Preset(newspaper string) (CrawlerConfig, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cfg, ok := f.presets[newspaper]
	return cfg, ok
}

// Register adds or replaces a preset
func (f *Factory) Register(cfg CrawlerConfig) error {
	if err := cfg.Validate(); err != nil {
		return crawlerrors.NewValidation(cfg.Newspaper, err.Error())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.presets[cfg.Newspaper]; exists {
		logger.ForCrawler(cfg.Newspaper).Info().Msg("Replacing preset")
	}
	f.presets[cfg.Newspaper] = cfg
	return nil
}

// List returns the preset names in sorted order
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.presets))
	for name := range f.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// presetConfigs defines the built-in newspaper configurations. The presets
// of hand-written adapters configure those adapters.
func presetConfigs() []CrawlerConfig {
	return []CrawlerConfig{
		{
			Newspaper: "서울신문",
			Region:    RegionSeoul,
			BaseURL:   "https://www.seoul.co.kr",
			ListURL:   "https://www.seoul.co.kr/newsList/economy?page={page}",
			Selectors: Selectors{
				Item:    "li.newsBox_row1",
				Title:   "div.articleTitle h2",
				Link:    "div.articleTitle a",
				Date:    "div.ArticleInfo span.body14",
				Summary: "div.body16.color600",
				Image:   "div.articleImage img",
			},
			Strategy:         StrategyTextLines,
			ContentSelectors: []string{"div#articleContent", "div.viewContent", "div.viewContentWrap", "#articleBody"},
			RemoveSelectors:  []string{".ad", ".advertisement", "div[id*='ad']", "div[id*='Ad']", "div[class*='ad']"},
			TitleSelectors:   []string{"h1"},
			NoiseKeywords:    seoulNoiseKeywords,
			MinLineLength:    20,
		},
		{
			Newspaper:        "경기일보",
			Region:           RegionGyeonggi,
			BaseURL:          "https://www.kyeonggi.com",
			ListURL:          "https://www.kyeonggi.com/list/25?page={page}",
			Selectors:        Selectors{Link: "h3 a[href*='/article/']"},
			Strategy:         StrategyParagraphs,
			ContentSelectors: []string{"div.article-body"},
			TitleSelectors:   []string{"h1"},
			DateSelectors:    []string{"meta[property='article:published_time']"},
			NoiseKeywords:    gyeonggiNoiseKeywords,
			MinLineLength:    20,
		},
		{
			Newspaper:        "강원도민일보",
			Region:           RegionGangwon,
			BaseURL:          "https://www.kado.net",
			ListURL:          "https://www.kado.net/news/articleList.html?sc_section_code=S1N2&page={page}",
			Selectors:        Selectors{Link: "h2 a"},
			Strategy:         StrategySelector,
			ContentSelectors: []string{"#article-view-content-div", ".article-veiw-body", "article.user-snizer"},
			TitleSelectors:   []string{"h1"},
			WriterSelectors:  []string{".author", ".writer"},
		},
		{
			Newspaper: "강원일보",
			Region:    RegionGangwon,
			BaseURL:   "https://www.kwnews.co.kr",
			ListURL:   "https://www.kwnews.co.kr/economy/all?page={page}",
			Selectors: Selectors{
				Item:    "div.arl_023 > ul > li",
				Title:   "p.title a",
				Link:    "p.title a",
				Date:    "p.date",
				Summary: "p.body a",
			},
			ContentSelectors: []string{"div#articlebody", "div.article_view", ".article-body", ".article_content"},
			RemoveSelectors:  []string{".quizContainer", "figcaption", ".articleCopyright"},
		},
		{
			Newspaper: "경인일보",
			Region:    RegionGyeonggi,
			BaseURL:   "https://www.kyeongin.com",
			ListURL:   "https://www.kyeongin.com/money?page={page}",
			Selectors: Selectors{
				Item: "div.list-item",
				Link: "a[href*='/article/']",
				Date: "span.date",
			},
			ContentSelectors: []string{"#article-body", ".article-body", ".art-content", "#articleBody", ".view-content"},
			TitleSelectors:   []string{"h2.headline", "h1.title", ".art-title", "h1"},
			DateSelectors:    []string{"meta[property='article:published_time']", "div.byline span.date", ".article-date"},
			RemoveSelectors:  []string{".article-copy", ".byline", ".ad-template"},
		},
		{
			Newspaper: "인천일보",
			Region:    RegionIncheon,
			BaseURL:   "https://www.incheonilbo.com",
			ListURL:   "https://www.incheonilbo.com/news/articleList.html?sc_section_code=S1N4&view_type=sm&page={page}",
			Selectors: Selectors{
				Item:    "section#section-list ul.type2 > li",
				Title:   "h2.titles a",
				Link:    "h2.titles a",
				Date:    "span.byline em:last-child",
				Summary: "p.lead",
				Image:   "img",
			},
			ContentSelectors: []string{"div#article-view-content-div", "div.article-view-content-div", ".article-body", "#articleBody"},
		},
		{
			Newspaper: "충청뉴스",
			Region:    RegionChungcheong,
			BaseURL:   "http://www.ccnnews.co.kr",
			ListURL:   "http://www.ccnnews.co.kr/news/articleList.html?sc_section_code=S1N3&view_type=sm&page={page}",
			Selectors: Selectors{
				Item:  "div.list-block",
				Title: ".list-titles a",
				Link:  ".list-titles a",
				Date:  "div.list-dated",
			},
			ContentSelectors: []string{"article#article-view-content-div", "#articleBody"},
			TitleSelectors:   []string{"h1"},
		},
		{
			Newspaper: "매일신문",
			Region:    RegionGyeongsang,
			BaseURL:   "https://www.imaeil.com",
			ListURL:   "https://www.imaeil.com/economy?page={page}",
			Selectors: Selectors{
				Item:    "div.arl_018 li",
				Title:   "p.title a",
				Link:    "p.title a",
				Date:    "p.date",
				Summary: "p.body",
				Image:   "div.thumb img",
			},
			ContentSelectors: []string{"div.article_content", "div.news_cnt"},
		},
		{
			Newspaper: "부산일보",
			Region:    RegionGyeongsang,
			BaseURL:   "https://www.busan.com",
			ListURL:   "https://www.busan.com/economy?page={page}",
			Selectors: Selectors{
				Item:    "ul.article_list li",
				Title:   "p.title a",
				Link:    "p.title a",
				Date:    "p.date",
				Summary: "p.body",
				Image:   "div.thumb img",
			},
			ContentSelectors: []string{"#article-view-content-div", ".article_content", "div.view_con", ".article-body"},
		},
		{
			Newspaper: "경남경제",
			Region:    RegionGyeongsang,
			BaseURL:   "https://www.gnen.net",
			ListURL:   "https://www.gnen.net/news/articleList.html?sc_section_code=S1N2&view_type=sm&page={page}",
			Selectors: Selectors{
				Item:    "section#section-list ul.type > li",
				Title:   "h4.titles a",
				Link:    "h4.titles a",
				Date:    "span.byline em.date",
				Summary: "p.lead a",
				Image:   "a.thumb img",
			},
			ContentSelectors: []string{"article#article-view-content-div"},
			RemoveSelectors:  []string{"h4.subheading", "div.press", "figure", ".article-footer"},
		},
		{
			Newspaper: "광주일보",
			Region:    RegionJeolla,
			BaseURL:   "http://www.kwangju.co.kr",
			ListURL:   "http://www.kwangju.co.kr/section.php?sid=5&page={page}",
			Selectors: Selectors{
				Item:    "ul.section_list li",
				Title:   "div",
				Link:    "a",
				Date:    "span.newsdate",
				Summary: "p",
				Image:   "span.thumb img",
			},
			ContentSelectors: []string{"div#joinskmbox"},
			RemoveSelectors:  []string{"table", "a"},
		},
		{
			Newspaper: "제주일보",
			Region:    RegionJeju,
			BaseURL:   "http://www.jejunews.com",
			ListURL:   "http://www.jejunews.com/news/articleList.html?sc_section_code=S1N5&view_type=sm&page={page}",
			Selectors: Selectors{
				Item:  "div.list-block",
				Title: "div.list-titles a",
				Link:  "div.list-titles a",
				Date:  "div.list-dated",
			},
			ContentSelectors: []string{"article#article-view-content-div", "#articleBody"},
		},
		{
			Newspaper: "한국경제",
			Region:    RegionNational,
			BaseURL:   "https://www.hankyung.com",
			ListURL:   "https://www.hankyung.com/economy/macro?page={page}",
			Selectors: Selectors{
				Item:    "ul.news-list > li",
				Title:   ".news-tit a",
				Link:    ".news-tit a",
				Date:    ".txt-date",
				Summary: "p.lead",
				Image:   "figure.thumb img",
			},
			ContentSelectors: []string{"div#articletxt", "div.article-body", "div#article-view-content-div"},
		},
	}
}

// gyeonggiNoiseKeywords are the footer lines printed under every 경기일보 article
var gyeonggiNoiseKeywords = append(defaultNoiseKeywords(),
	"등록번호", "등록일", "발행인", "편집·인쇄인", "사업자등록번호", "통신판매업",
	"본사 :", "인천본사", "서울본사", "세종본사", "저작권법", "무단 전재",
	"rights reserved", "경기일보B/D", "전화 :", "경기일보의 모든 콘텐츠",
)
