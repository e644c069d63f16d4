package sink

import (
	"bufio"
	"encoding/csv"
	"os"
	"sort"

	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/logger"
	crawlerrors "sjsage522/newsworker/pkg/errors"
)

const utf8BOM = "\uFEFF"

// CSVHeader is the fixed column order of the CSV output
var CSVHeader = []string{"title", "content", "url", "date", "writer", "source", "newspaper", "region", "collected_at"}

// CSVSink writes each batch to a CSV file, replacing the previous contents
type CSVSink struct {
	path string
	log  *logger.Logger
}

// NewCSVSink creates a sink writing to path
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{
		path: path,
		log:  logger.ForSink("csv"),
	}
}

func (s *CSVSink) Name() string { return "csv" }

// Save writes a BOM, the header and one row per article, newest date first
func (s *CSVSink) Save(batch Batch) error {
	if len(batch.Articles) == 0 {
		s.log.Warn().Msg("No articles to save")
		return nil
	}

	f, err := os.Create(s.path)
	if err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to open "+s.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(utf8BOM); err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to write "+s.path, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to write header", err)
	}
	for _, a := range sortedByDate(batch.Articles) {
		row := []string{a.Title, a.Content, a.URL, a.Date, a.Writer, a.Source, a.Newspaper, string(a.Region), a.CollectedAtString()}
		if err := cw.Write(row); err != nil {
			return crawlerrors.NewSink(s.Name(), "failed to write row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to flush "+s.path, err)
	}
	if err := w.Flush(); err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to flush "+s.path, err)
	}
	if err := f.Close(); err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to close "+s.path, err)
	}

	s.log.Info().Str("path", s.path).Int("article_count", len(batch.Articles)).Msg("Saved CSV")
	return nil
}

func (s *CSVSink) Close() error { return nil }

// sortedByDate returns a copy ordered by date descending; undated articles
// go last and ties keep their collection order
func sortedByDate(articles []crawler.ArticleRecord) []crawler.ArticleRecord {
	out := append([]crawler.ArticleRecord(nil), articles...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date == "" || out[j].Date == "" {
			return out[i].Date != "" && out[j].Date == ""
		}
		return out[i].Date > out[j].Date
	})
	return out
}
