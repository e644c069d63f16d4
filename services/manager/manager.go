package manager

import (
	"errors"
	"time"

	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/services/sink"

	"github.com/google/uuid"
)

// SourceFailure records a newspaper that produced nothing because its
// listing could not be read
type SourceFailure struct {
	Source string
	Region crawler.Region
	Err    error
}

// Result is the outcome of one batch
type Result struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Articles     []crawler.ArticleRecord
	Failures     []SourceFailure
	RegionCounts map[crawler.Region]int
	SourceCounts map[string]int

	sourceRegions map[string]crawler.Region
}

func newResult(runID string, started time.Time) *Result {
	return &Result{
		RunID:         runID,
		StartedAt:     started,
		RegionCounts:  make(map[crawler.Region]int),
		SourceCounts:  make(map[string]int),
		sourceRegions: make(map[string]crawler.Region),
	}
}

func (r *Result) add(c crawler.Crawler, records []crawler.ArticleRecord) {
	r.Articles = append(r.Articles, records...)
	r.RegionCounts[c.GetRegion()] += len(records)
	r.SourceCounts[c.GetName()] += len(records)
	r.sourceRegions[c.GetName()] = c.GetRegion()
}

// SourceRegion returns the region of a source that ran in this batch
func (r *Result) SourceRegion(source string) crawler.Region {
	return r.sourceRegions[source]
}

// Manager runs the registered crawlers one after another and hands the
// collected batch to its sinks
type Manager struct {
	crawlers []crawler.Crawler
	sinks    []sink.Sink
	opts     crawler.CrawlOptions

	now      func() time.Time
	newRunID func() string
	log      *logger.Logger
}

// NewManager creates a manager. opts.MaxArticles is overridden per run.
func NewManager(opts crawler.CrawlOptions, sinks ...sink.Sink) *Manager {
	return &Manager{
		sinks:    sinks,
		opts:     opts,
		now:      time.Now,
		newRunID: uuid.NewString,
		log:      logger.ForManager(),
	}
}

// Register adds a crawler to the run list
func (m *Manager) Register(c crawler.Crawler) {
	m.crawlers = append(m.crawlers, c)
	m.log.Info().Str("newspaper", c.GetName()).Str("region", string(c.GetRegion())).Msg("Registered crawler")
}

// RegisterDefaults registers the hand-written crawlers followed by every
// other factory preset. Every crawler is built from the factory's current
// preset, so presets replaced with Register take effect.
func (m *Manager) RegisterDefaults(f *crawler.Factory) error {
	for _, c := range crawler.HandWritten(f) {
		m.Register(c)
	}

	for _, name := range f.List() {
		if crawler.IsHandWritten(name) {
			continue
		}
		c, err := f.Create(name)
		if err != nil {
			return err
		}
		m.Register(c)
	}
	return nil
}

// Crawlers returns the registered crawlers in run order
func (m *Manager) Crawlers() []crawler.Crawler {
	return append([]crawler.Crawler(nil), m.crawlers...)
}

// RunAll runs every registered crawler
func (m *Manager) RunAll(maxArticles int) *Result {
	m.log.Info().Int("crawler_count", len(m.crawlers)).Int("max_articles", maxArticles).Msg("Starting crawl of all regions")
	return m.run(m.crawlers, maxArticles)
}

// RunRegion runs only the crawlers covering region
func (m *Manager) RunRegion(region crawler.Region, maxArticles int) *Result {
	var targets []crawler.Crawler
	for _, c := range m.crawlers {
		if c.GetRegion() == region {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		m.log.Warn().Str("region", string(region)).Msg("No crawlers registered for region")
	}

	m.log.Info().Str("region", string(region)).Int("crawler_count", len(targets)).Msg("Starting regional crawl")
	return m.run(targets, maxArticles)
}

func (m *Manager) run(crawlers []crawler.Crawler, maxArticles int) *Result {
	result := newResult(m.newRunID(), m.now())
	opts := m.opts
	opts.MaxArticles = maxArticles

	for i, c := range crawlers {
		log := m.log.WithFields(logger.Fields{
			"newspaper": c.GetName(),
			"region":    string(c.GetRegion()),
			"run_id":    result.RunID,
		})
		log.Info().Int("index", i+1).Int("total", len(crawlers)).Msg("Running crawler")

		records, err := crawler.Crawl(c, opts)
		if err != nil {
			log.Error().Err(err).Msg("Crawler failed")
			result.Failures = append(result.Failures, SourceFailure{
				Source: c.GetName(),
				Region: c.GetRegion(),
				Err:    err,
			})
			continue
		}
		result.add(c, records)
	}

	result.FinishedAt = m.now()
	m.log.Info().
		Str("run_id", result.RunID).
		Int("article_count", len(result.Articles)).
		Int("failure_count", len(result.Failures)).
		Dur("elapsed", result.FinishedAt.Sub(result.StartedAt)).
		Msg("Crawl finished")
	return result
}

// Save hands the batch to every sink in order. Every sink is attempted; the
// returned error joins the failures of all sinks that could not save.
func (m *Manager) Save(result *Result) error {
	if result == nil || len(result.Articles) == 0 {
		m.log.Warn().Msg("No articles to save")
		return nil
	}

	batch := sink.Batch{
		RunID:    result.RunID,
		Articles: result.Articles,
		SavedAt:  m.now(),
	}

	var errs []error
	for _, s := range m.sinks {
		if err := s.Save(batch); err != nil {
			m.log.Error().Err(err).Str("sink", s.Name()).Msg("Failed to save batch")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink
func (m *Manager) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
