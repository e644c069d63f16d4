package crawler

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"sjsage522/newsworker/helpers"
	crawlerrors "sjsage522/newsworker/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

const pagePlaceholder = "{page}"

// listingItem is what the listing page tells us about one article
type listingItem struct {
	URL      string
	Title    string
	Date     string
	Summary  string
	ImageURL string
}

// ConfigurableCrawler is a crawler that can be configured with selectors
type ConfigurableCrawler struct {
	BaseCrawler
	Config CrawlerConfig

	extractor contentExtractor
	listing   map[string]listingItem
}

// NewConfigurableCrawler creates a new configurable crawler
func NewConfigurableCrawler(cfg CrawlerConfig, opts Options) *ConfigurableCrawler {
	cfg = cfg.withDefaults()

	base := NewBaseCrawler(cfg.Newspaper, cfg.Region, strings.TrimSuffix(cfg.BaseURL, "/"), opts)
	base.CacheKey = cfg.CacheKey

	return &ConfigurableCrawler{
		BaseCrawler: base,
		Config:      cfg,
		extractor:   newContentExtractor(cfg),
		listing:     make(map[string]listingItem),
	}
}

// pageURL returns the listing URL for a 1-based page number
func (c *ConfigurableCrawler) pageURL(page int) string {
	return strings.ReplaceAll(c.Config.ListURL, pagePlaceholder, strconv.Itoa(page))
}

func (c *ConfigurableCrawler) pageCount() int {
	if !strings.Contains(c.Config.ListURL, pagePlaceholder) {
		return 1
	}
	return c.Config.MaxPages
}

// GetArticleURLs walks the listing pages in order. URLs are de-duplicated,
// walking stops at an empty page, and the first item older than MinDate
// ends the listing without being included.
func (c *ConfigurableCrawler) GetArticleURLs() ([]string, error) {
	c.listing = make(map[string]listingItem)
	seen := make(map[string]bool)
	var urls []string

	for page := 1; page <= c.pageCount(); page++ {
		doc, err := c.fetchDocument(c.pageURL(page))
		if err != nil {
			if page == 1 {
				if crawlerrors.IsType(err, crawlerrors.ErrorTypeRateLimit) {
					return nil, err
				}
				return nil, crawlerrors.NewUnreachable(c.Newspaper, err)
			}
			c.log.Warn().Err(err).Int("page", page).Msg("Failed to fetch listing page, stopping")
			break
		}

		items := c.listItems(doc)
		if len(items) == 0 {
			c.log.Debug().Int("page", page).Msg("Empty listing page")
			break
		}

		added := 0
		for _, item := range items {
			if c.Config.MinDate != "" && helpers.Before(item.Date, c.Config.MinDate) {
				c.log.Info().Str("date", item.Date).Str("min_date", c.Config.MinDate).Msg("Reached date floor")
				return urls, nil
			}
			if seen[item.URL] {
				continue
			}
			seen[item.URL] = true
			urls = append(urls, item.URL)
			c.listing[item.URL] = item
			added++

			if len(urls) >= c.Config.MaxURLs {
				return urls, nil
			}
		}

		c.log.Debug().Int("page", page).Int("added", added).Int("total", len(urls)).Msg("Processed listing page")
		if added == 0 {
			break
		}
	}

	return urls, nil
}

// listItems extracts article links and listing metadata in page order
func (c *ConfigurableCrawler) listItems(doc *goquery.Document) []listingItem {
	var items []listingItem
	sel := c.Config.Selectors

	if sel.Item == "" {
		doc.Find(sel.Link).Each(func(_ int, a *goquery.Selection) {
			if item, ok := c.itemFromLink(a); ok {
				items = append(items, item)
			}
		})
		return items
	}

	doc.Find(sel.Item).Each(func(_ int, s *goquery.Selection) {
		link := s.Find(sel.Link).First()
		if link.Length() == 0 && s.Is(sel.Link) {
			link = s
		}
		item, ok := c.itemFromLink(link)
		if !ok {
			return
		}

		if sel.Title != "" {
			if title := elementText(s.Find(sel.Title).First()); title != "" {
				item.Title = title
			}
		}
		if sel.Date != "" {
			if date, ok := c.Dates.Normalize(elementText(s.Find(sel.Date).First())); ok {
				item.Date = date
			}
		}
		if sel.Summary != "" {
			item.Summary = elementText(s.Find(sel.Summary).First())
		}
		if sel.Image != "" {
			item.ImageURL = imageSource(s.Find(sel.Image).First(), c.resolveURL)
		}
		items = append(items, item)
	})
	return items
}

func (c *ConfigurableCrawler) itemFromLink(a *goquery.Selection) (listingItem, bool) {
	if a.Length() == 0 {
		return listingItem{}, false
	}
	href, ok := a.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return listingItem{}, false
	}
	return listingItem{
		URL:   c.resolveURL(href),
		Title: elementText(a),
	}, true
}

// ParseArticle fetches a detail page and builds a record from it
func (c *ConfigurableCrawler) ParseArticle(url string) (*ArticleRecord, error) {
	doc, err := c.fetchDocument(url)
	if err != nil {
		return nil, err
	}
	listed := c.listing[url]

	title := firstText(doc.Selection, c.Config.TitleSelectors)
	if title == "" {
		title = listed.Title
	}
	if title == "" {
		return nil, nil
	}

	pageText := lineText(doc.Find("body"))
	record := c.newRecord(url, title)
	record.Content = c.extractor.extract(doc.Selection)
	record.Date = c.articleDate(doc, listed, pageText)
	record.Writer = c.articleWriter(doc, pageText)
	record.Summary = listed.Summary
	if record.Summary == "" {
		record.Summary = elementText(doc.Find("meta[property='og:description']").First())
	}
	record.ImageURL = c.resolveURL(elementText(doc.Find("meta[property='og:image']").First()))
	if record.ImageURL == "" {
		record.ImageURL = listed.ImageURL
	}

	return record, nil
}

// articleDate prefers the detail page selectors, then the listing date, then
// any labelled or absolute date in the page text
func (c *ConfigurableCrawler) articleDate(doc *goquery.Document, listed listingItem, pageText string) string {
	for _, selector := range c.Config.DateSelectors {
		if date, ok := c.Dates.Normalize(elementText(doc.Find(selector).First())); ok {
			return date
		}
	}
	if listed.Date != "" {
		return listed.Date
	}
	if date, ok := c.Dates.Extract(pageText); ok {
		return date
	}
	return ""
}

func (c *ConfigurableCrawler) articleWriter(doc *goquery.Document, pageText string) string {
	if text := firstText(doc.Selection, c.Config.WriterSelectors); text != "" {
		if writer := helpers.ExtractWriter(text, nil); writer != "" {
			return writer
		}
		if utf8.RuneCountInString(text) <= 10 {
			return text
		}
	}
	return helpers.ExtractWriter(pageText, nil)
}

// imageSource reads src or a lazy-loading attribute from an img element
func imageSource(img *goquery.Selection, resolve func(string) string) string {
	for _, attr := range []string{"src", "data-src", "data-original"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return resolve(v)
		}
	}
	return ""
}
