package crawler

import (
	"fmt"
	"io"
	"strings"
	"time"

	"sjsage522/newsworker/helpers"
	"sjsage522/newsworker/logger"
	crawlerrors "sjsage522/newsworker/pkg/errors"
	"sjsage522/newsworker/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// DefaultPolitenessDelay is the pause between two detail page fetches
const DefaultPolitenessDelay = 300 * time.Millisecond

// Options carries the runtime dependencies shared by every crawler built by a
// Factory
type Options struct {
	Cache     cache.CacheService
	BlockTime time.Duration
	Timeout   time.Duration
	Retry     helpers.RetryPolicy
	Now       func() time.Time
}

// BaseCrawler provides common functionality for all crawlers
type BaseCrawler struct {
	Newspaper string
	Region    Region
	BaseURL   string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Retry     helpers.RetryPolicy
	Dates     *helpers.DateParser
	Now       func() time.Time

	fetcher *helpers.Fetcher
	log     *logger.Logger
}

// NewBaseCrawler creates the shared part of a crawler with its own HTTP client
func NewBaseCrawler(newspaper string, region Region, baseURL string, opts Options) BaseCrawler {
	retry := opts.Retry
	if retry.Attempts == 0 {
		retry = helpers.DefaultRetryPolicy
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	blockTime := opts.BlockTime
	if blockTime <= 0 {
		blockTime = 5 * time.Minute
	}

	log := logger.ForCrawler(newspaper)
	retry.OnRetry = func(attempt int, err error) {
		log.Warn().Err(err).Int("attempt", attempt).Msg("Request failed, retrying")
	}

	dates := helpers.NewDateParser()
	dates.Now = now

	return BaseCrawler{
		Newspaper: newspaper,
		Region:    region,
		BaseURL:   baseURL,
		CacheKey:  "news_rate_limited:" + newspaper,
		CacheSvc:  opts.Cache,
		BlockTime: blockTime,
		Retry:     retry,
		Dates:     dates,
		Now:       now,
		fetcher:   helpers.NewFetcher(newspaper, opts.Timeout),
		log:       log,
	}
}

// GetName returns the newspaper name
func (c *BaseCrawler) GetName() string {
	return c.Newspaper
}

// GetRegion returns the region the newspaper covers
func (c *BaseCrawler) GetRegion() Region {
	return c.Region
}

// isBlocked reports whether an earlier rate-limit response is still in effect
func (c *BaseCrawler) isBlocked() bool {
	if c.CacheSvc == nil || c.CacheKey == "" {
		return false
	}
	_, err := c.CacheSvc.Get(c.CacheKey)
	return err == nil
}

// fetchWithCache fetches a URL with retries unless the source is blocked, and
// blocks the source for BlockTime when the site rate limits us
func (c *BaseCrawler) fetchWithCache(url string) (io.Reader, error) {
	if c.isBlocked() {
		return nil, crawlerrors.NewRateLimit(c.Newspaper, c.BlockTime)
	}

	body, err := helpers.Retry(c.Retry, func() (io.Reader, error) {
		return c.fetcher.Fetch(url)
	})
	if err != nil {
		if crawlerrors.IsType(err, crawlerrors.ErrorTypeRateLimit) && c.CacheSvc != nil && c.CacheKey != "" {
			if cerr := c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", int(c.BlockTime/time.Second))), c.BlockTime); cerr != nil {
				c.log.Warn().Err(cerr).Msg("Failed to store rate limit block")
			} else {
				c.log.Warn().Dur("block_time", c.BlockTime).Msg("Rate limited, source blocked")
			}
		}
		return nil, err
	}

	return body, nil
}

// fetchDocument fetches and parses a page
func (c *BaseCrawler) fetchDocument(url string) (*goquery.Document, error) {
	body, err := c.fetchWithCache(url)
	if err != nil {
		return nil, err
	}
	return c.createDocument(body)
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, crawlerrors.NewParsing(c.Newspaper, "HTML 파싱 오류", err)
	}
	return doc, nil
}

// resolveURL makes a link found on a page absolute
func (c *BaseCrawler) resolveURL(href string) string {
	return helpers.ResolveURL(strings.TrimSuffix(c.BaseURL, "/")+"/", href)
}

// newRecord fills the identity fields every record shares
func (c *BaseCrawler) newRecord(url, title string) *ArticleRecord {
	return &ArticleRecord{
		Title:       strings.TrimSpace(title),
		URL:         url,
		Source:      c.Newspaper,
		Newspaper:   c.Newspaper,
		Region:      c.Region,
		CollectedAt: c.Now(),
	}
}

// CrawlOptions bounds one Crawl call
type CrawlOptions struct {
	// MaxArticles caps successfully parsed records; zero means no cap
	MaxArticles int
	// Delay is the politeness pause between detail fetches
	Delay time.Duration
	Sleep func(time.Duration)
}

// Crawl lists article URLs and parses them one at a time. Per-article
// failures are logged and skipped; only a listing failure is returned.
// Fetching stops as soon as MaxArticles records have been parsed.
func Crawl(c Crawler, opts CrawlOptions) ([]ArticleRecord, error) {
	log := logger.ForCrawler(c.GetName())
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	urls, err := c.GetArticleURLs()
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		log.Warn().Msg("No article URLs found")
		return nil, nil
	}

	log.Info().Int("url_count", len(urls)).Msg("Collected article URLs")

	var records []ArticleRecord
	for i, url := range urls {
		if opts.MaxArticles > 0 && len(records) >= opts.MaxArticles {
			break
		}
		if i > 0 && opts.Delay > 0 {
			sleep(opts.Delay)
		}

		record, err := c.ParseArticle(url)
		if err != nil {
			if crawlerrors.IsType(err, crawlerrors.ErrorTypeRateLimit) {
				log.Warn().Err(err).Msg("Source rate limited, stopping")
				break
			}
			log.Warn().Err(err).Str("url", url).Msg("Failed to parse article")
			continue
		}
		if record == nil {
			log.Debug().Str("url", url).Msg("No title found, skipping")
			continue
		}

		records = append(records, *record)
		log.Debug().Str("title", record.Title).Int("count", len(records)).Msg("Parsed article")
	}

	log.Info().Int("article_count", len(records)).Msg("Crawl finished")
	return records, nil
}
