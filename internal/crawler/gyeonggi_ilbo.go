package crawler

import (
	"regexp"
	"strings"

	"sjsage522/newsworker/helpers"

	"github.com/PuerkitoBio/goquery"
)

var gyeonggiApproved = regexp.MustCompile(`승인\s*(\d{4}-\d{2}-\d{2})`)

// GyeonggiIlboCrawler crawls economy news from 경기일보
type GyeonggiIlboCrawler struct {
	*ConfigurableCrawler
	cleaner helpers.ContentCleaner
}

// NewGyeonggiIlboCrawler creates a 경기일보 crawler from its preset
func NewGyeonggiIlboCrawler(cfg CrawlerConfig, opts Options) *GyeonggiIlboCrawler {
	c := &GyeonggiIlboCrawler{ConfigurableCrawler: NewConfigurableCrawler(cfg, opts)}
	c.cleaner = helpers.ContentCleaner{
		NoiseKeywords: c.Config.NoiseKeywords,
		MinLineLength: c.Config.MinLineLength,
	}
	return c
}

// ParseArticle collects the paragraphs of the body container, or of the whole
// page when the container is missing, skipping the publisher footer and
// bullet link lists
func (c *GyeonggiIlboCrawler) ParseArticle(url string) (*ArticleRecord, error) {
	doc, err := c.fetchDocument(url)
	if err != nil {
		return nil, err
	}

	title := firstText(doc.Selection, c.Config.TitleSelectors)
	if title == "" {
		return nil, nil
	}

	root := findContainer(doc.Selection, c.Config.ContentSelectors)
	if root == nil {
		root = doc.Find("body")
	}

	var parts []string
	stripUnwanted(root, c.Config.RemoveSelectors).Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(spaceRun.ReplaceAllString(p.Text(), " "))
		if text == "" || strings.HasPrefix(text, "▶") || strings.HasPrefix(text, "●") {
			return
		}
		parts = append(parts, text)
	})

	record := c.newRecord(url, title)
	record.Content = c.cleaner.Clean(strings.Join(parts, "\n"))

	pageText := lineText(doc.Find("body"))
	if m := gyeonggiApproved.FindStringSubmatch(pageText); m != nil {
		record.Date, _ = c.Dates.Normalize(m[1])
	}
	if record.Date == "" {
		record.Date = c.articleDate(doc, c.listing[url], pageText)
	}
	record.Writer = helpers.ExtractWriter(pageText, nil)
	record.ImageURL = c.resolveURL(elementText(doc.Find("meta[property='og:image']").First()))

	return record, nil
}
