package crawler

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"sjsage522/newsworker/helpers"
)

// chungcheongByline marks the start of the body, e.g. "[충청뉴스 홍길동 기자]"
var chungcheongByline = regexp.MustCompile(`\[[^\]]*기자\]`)

var chungcheongBodyEnd = []string{"저작권자", "Copyright ⓒ"}

// ChungcheongNewsCrawler crawls economy news from 충청뉴스. Its article pages
// have no stable body container, so the body is cut out of the page text
// between the bracketed byline and the copyright notice.
type ChungcheongNewsCrawler struct {
	*ConfigurableCrawler
	cleaner helpers.ContentCleaner
}

// NewChungcheongNewsCrawler creates a 충청뉴스 crawler from its preset
func NewChungcheongNewsCrawler(cfg CrawlerConfig, opts Options) *ChungcheongNewsCrawler {
	c := &ChungcheongNewsCrawler{ConfigurableCrawler: NewConfigurableCrawler(cfg, opts)}
	c.cleaner = helpers.ContentCleaner{NoiseKeywords: c.Config.NoiseKeywords}
	return c
}

// ParseArticle extracts the article, taking the first reasonably sized line
// of the page as the title when there is no h1
func (c *ChungcheongNewsCrawler) ParseArticle(url string) (*ArticleRecord, error) {
	doc, err := c.fetchDocument(url)
	if err != nil {
		return nil, err
	}

	pageText := lineText(stripUnwanted(doc.Find("body"), nil))

	title := firstText(doc.Selection, c.Config.TitleSelectors)
	if title == "" {
		title = firstMeaningfulLine(pageText)
	}
	if title == "" {
		return nil, nil
	}

	content := c.cleaner.Clean(bodyBetweenMarkers(pageText))
	if content == "" {
		content = c.extractor.extract(doc.Selection)
	}

	record := c.newRecord(url, title)
	record.Content = content
	record.Date = c.articleDate(doc, c.listing[url], pageText)
	record.Writer = helpers.ExtractWriter(pageText, nil)
	record.ImageURL = c.resolveURL(elementText(doc.Find("meta[property='og:image']").First()))
	return record, nil
}

// bodyBetweenMarkers returns the text after the first bracketed byline and
// before the copyright notice, or "" when either marker is missing
func bodyBetweenMarkers(text string) string {
	end := -1
	for _, marker := range chungcheongBodyEnd {
		if i := strings.Index(text, marker); i > 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return ""
	}
	loc := chungcheongByline.FindStringIndex(text[:end])
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(text[loc[1]:end])
}

func firstMeaningfulLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n > 10 && n < 150 {
			return line
		}
	}
	return ""
}
