package crawler

import (
	"strings"
)

// GangwonDominIlboCrawler crawls economy news from 강원도민일보
type GangwonDominIlboCrawler struct {
	*ConfigurableCrawler
	fallback contentExtractor
}

// NewGangwonDominIlboCrawler creates a 강원도민일보 crawler from its preset
func NewGangwonDominIlboCrawler(cfg CrawlerConfig, opts Options) *GangwonDominIlboCrawler {
	c := &GangwonDominIlboCrawler{ConfigurableCrawler: NewConfigurableCrawler(cfg, opts)}

	fallback := c.Config
	fallback.Strategy = StrategyParagraphs
	fallback.ContentSelectors = nil
	fallback.MinLineLength = 20
	c.fallback = newContentExtractor(fallback)
	return c
}

// GetArticleURLs keeps only article view links under the listing headlines
func (c *GangwonDominIlboCrawler) GetArticleURLs() ([]string, error) {
	urls, err := c.ConfigurableCrawler.GetArticleURLs()
	if err != nil {
		return nil, err
	}

	filtered := urls[:0]
	for _, u := range urls {
		if strings.Contains(u, "articleView") {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// ParseArticle requires both a title and a body
func (c *GangwonDominIlboCrawler) ParseArticle(url string) (*ArticleRecord, error) {
	doc, err := c.fetchDocument(url)
	if err != nil {
		return nil, err
	}

	title := firstText(doc.Selection, c.Config.TitleSelectors)
	if title == "" {
		return nil, nil
	}

	content := c.extractor.extract(doc.Selection)
	if content == "" {
		content = c.fallback.extract(doc.Selection)
	}
	if content == "" {
		c.log.Warn().Str("url", url).Msg("Article body not found")
		return nil, nil
	}

	pageText := lineText(doc.Find("body"))
	record := c.newRecord(url, title)
	record.Content = content
	record.Date = c.articleDate(doc, c.listing[url], pageText)
	record.Writer = c.articleWriter(doc, pageText)
	record.ImageURL = c.resolveURL(elementText(doc.Find("meta[property='og:image']").First()))
	if record.ImageURL == "" {
		if body := findContainer(doc.Selection, c.Config.ContentSelectors); body != nil {
			record.ImageURL = imageSource(body.Find("img").First(), c.resolveURL)
		}
	}
	return record, nil
}
