package crawler

import (
	"regexp"

	"sjsage522/newsworker/helpers"
)

var seoulDateTime = regexp.MustCompile(`(\d{4})[-./](\d{2})[-./](\d{2})\s+\d{1,2}:\d{2}`)

// seoulNoiseKeywords catch ad scripts that leak into the 서울신문 body as text
var seoulNoiseKeywords = append(defaultNoiseKeywords(),
	"저작권", "무단", "전재", "배포금지", "googletag", "display:", "width:", "margin:", "padding:",
	"MobileAd", "function()", "cmd.push", "gpt-ad", "src=", "href=", "class=", "div>", "<img", "<div",
	"window.", "document.", ".jpg", ".png", ".webp", "기사를", "듣나요", "AI 음성",
)

// SeoulShinmunCrawler crawls economy news from 서울신문
type SeoulShinmunCrawler struct {
	*ConfigurableCrawler
	fallback contentExtractor
}

// NewSeoulShinmunCrawler creates a 서울신문 crawler from its preset
func NewSeoulShinmunCrawler(cfg CrawlerConfig, opts Options) *SeoulShinmunCrawler {
	c := &SeoulShinmunCrawler{ConfigurableCrawler: NewConfigurableCrawler(cfg, opts)}
	fallback := c.Config
	fallback.Strategy = StrategyParagraphs
	fallback.ContentSelectors = nil
	c.fallback = newContentExtractor(fallback)
	return c
}

// ParseArticle reads the line-broken body container, falling back to every
// long paragraph on the page when the container is missing
func (c *SeoulShinmunCrawler) ParseArticle(url string) (*ArticleRecord, error) {
	doc, err := c.fetchDocument(url)
	if err != nil {
		return nil, err
	}
	listed := c.listing[url]

	title := firstText(doc.Selection, c.Config.TitleSelectors)
	if title == "" {
		return nil, nil
	}

	record := c.newRecord(url, title)
	if findContainer(doc.Selection, c.Config.ContentSelectors) != nil {
		record.Content = c.extractor.extract(doc.Selection)
	} else {
		record.Content = c.fallback.extract(doc.Selection)
	}

	pageText := lineText(doc.Find("body"))
	if m := seoulDateTime.FindStringSubmatch(pageText); m != nil {
		record.Date, _ = c.Dates.Normalize(m[1] + "-" + m[2] + "-" + m[3])
	}
	if record.Date == "" {
		record.Date = c.articleDate(doc, listed, pageText)
	}
	record.Writer = helpers.ExtractWriter(pageText, nil)
	record.Summary = listed.Summary
	record.ImageURL = c.resolveURL(elementText(doc.Find("meta[property='og:image']").First()))
	if record.ImageURL == "" {
		record.ImageURL = listed.ImageURL
	}

	return record, nil
}
