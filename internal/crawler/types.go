package crawler

import (
	"fmt"
	"strings"
	"time"
)

// CollectedAtLayout is how CollectedAt is rendered in every sink
const CollectedAtLayout = "2006-01-02 15:04:05"

// ArticleRecord is one normalized news article
type ArticleRecord struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Date        string    `json:"date,omitempty"`
	Writer      string    `json:"writer,omitempty"`
	Source      string    `json:"source"`
	Newspaper   string    `json:"newspaper"`
	Region      Region    `json:"region"`
	Summary     string    `json:"summary,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CollectedAt time.Time `json:"collected_at"`
}

// CollectedAtString formats CollectedAt for storage
func (a ArticleRecord) CollectedAtString() string {
	return a.CollectedAt.Format(CollectedAtLayout)
}

// Region is the administrative region a newspaper covers
type Region string

const (
	RegionSeoul       Region = "서울"
	RegionGyeonggi    Region = "경기도"
	RegionIncheon     Region = "인천"
	RegionGangwon     Region = "강원도"
	RegionChungcheong Region = "충청도"
	RegionGyeongsang  Region = "경상도"
	RegionJeolla      Region = "전라도"
	RegionJeju        Region = "제주도"
	RegionNational    Region = "전국"
)

var regions = []struct {
	region Region
	slug   string
}{
	{RegionSeoul, "seoul"},
	{RegionGyeonggi, "gyeonggi"},
	{RegionIncheon, "incheon"},
	{RegionGangwon, "gangwon"},
	{RegionChungcheong, "chungcheong"},
	{RegionGyeongsang, "gyeongsang"},
	{RegionJeolla, "jeolla"},
	{RegionJeju, "jeju"},
	{RegionNational, "national"},
}

// Regions returns every region in display order
func Regions() []Region {
	out := make([]Region, len(regions))
	for i, r := range regions {
		out[i] = r.region
	}
	return out
}

// ParseRegion accepts a Korean region name or its English slug
func ParseRegion(s string) (Region, error) {
	s = strings.TrimSpace(s)
	for _, r := range regions {
		if s == string(r.region) || strings.EqualFold(s, r.slug) {
			return r.region, nil
		}
	}
	return "", fmt.Errorf("unknown region %q", s)
}

// Slug returns the ASCII name of the region
func (r Region) Slug() string {
	for _, known := range regions {
		if known.region == r {
			return known.slug
		}
	}
	return string(r)
}

// Strategy selects how article body text is pulled out of a detail page
type Strategy string

const (
	StrategySelector   Strategy = "selector"
	StrategyParagraphs Strategy = "paragraphs"
	StrategyTextLines  Strategy = "textlines"
)

// Selectors contains CSS selectors for the listing page
type Selectors struct {
	Item    string `yaml:"item"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Date    string `yaml:"date"`
	Summary string `yaml:"summary"`
	Image   string `yaml:"image"`
}

const (
	defaultMaxPages = 1
	maxPagesCeiling = 500
	defaultMaxURLs  = 50
)

// CrawlerConfig contains configuration for a crawler
type CrawlerConfig struct {
	Newspaper string    `yaml:"newspaper"`
	Region    Region    `yaml:"region"`
	BaseURL   string    `yaml:"base_url"`
	ListURL   string    `yaml:"list_url"`
	MaxPages  int       `yaml:"max_pages"`
	Selectors Selectors `yaml:"selectors"`

	Strategy         Strategy `yaml:"strategy"`
	ContentSelectors []string `yaml:"content_selectors"`
	TitleSelectors   []string `yaml:"title_selectors"`
	DateSelectors    []string `yaml:"date_selectors"`
	WriterSelectors  []string `yaml:"writer_selectors"`
	RemoveSelectors  []string `yaml:"remove_selectors"`

	NoiseKeywords []string `yaml:"noise_keywords"`
	MinDate       string   `yaml:"min_date"`
	MinLineLength int      `yaml:"min_line_length"`
	MaxURLs       int      `yaml:"max_urls"`
	CacheKey      string   `yaml:"cache_key"`
}

// Validate checks the fields a crawler cannot work without
func (c CrawlerConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.Newspaper) == "":
		return fmt.Errorf("newspaper name is required")
	case strings.TrimSpace(c.BaseURL) == "":
		return fmt.Errorf("%s: base_url is required", c.Newspaper)
	case strings.TrimSpace(c.ListURL) == "":
		return fmt.Errorf("%s: list_url is required", c.Newspaper)
	case strings.TrimSpace(c.Selectors.Link) == "":
		return fmt.Errorf("%s: selectors.link is required", c.Newspaper)
	}
	switch c.Strategy {
	case "", StrategySelector, StrategyParagraphs, StrategyTextLines:
	default:
		return fmt.Errorf("%s: unknown strategy %q", c.Newspaper, c.Strategy)
	}
	return nil
}

// withDefaults fills optional fields
func (c CrawlerConfig) withDefaults() CrawlerConfig {
	if c.MaxPages <= 0 {
		c.MaxPages = defaultMaxPages
	}
	if c.MaxPages > maxPagesCeiling {
		c.MaxPages = maxPagesCeiling
	}
	if c.MaxURLs <= 0 {
		c.MaxURLs = defaultMaxURLs
	}
	if c.Strategy == "" {
		c.Strategy = StrategySelector
	}
	if len(c.TitleSelectors) == 0 {
		c.TitleSelectors = defaultTitleSelectors
	}
	if c.NoiseKeywords == nil {
		c.NoiseKeywords = defaultNoiseKeywords()
	}
	if c.CacheKey == "" {
		c.CacheKey = "news_rate_limited:" + c.Newspaper
	}
	if c.Region == "" {
		c.Region = RegionNational
	}
	return c
}

// Crawler is the contract every newspaper adapter implements
type Crawler interface {
	// GetName returns the newspaper name
	GetName() string

	// GetRegion returns the region the newspaper covers
	GetRegion() Region

	// GetArticleURLs lists candidate article links in listing order
	GetArticleURLs() ([]string, error)

	// ParseArticle fetches and extracts one article. It returns nil without
	// an error when the page has no recognizable title.
	ParseArticle(url string) (*ArticleRecord, error)
}
