package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sjsage522/newsworker/helpers"
	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/logger"
	crawlerrors "sjsage522/newsworker/pkg/errors"
)

const (
	textTimestampLayout = "20060102_150405"
	indexFileName       = "index.txt"
	ruleWidth           = 70
)

// TextSink writes one plain-text file per article under a directory per
// region and appends every batch to a running index file
type TextSink struct {
	baseDir string
	width   int
	log     *logger.Logger
}

// NewTextSink creates a sink rooted at baseDir
func NewTextSink(baseDir string) *TextSink {
	return &TextSink{
		baseDir: baseDir,
		width:   helpers.DefaultFilenameWidth,
		log:     logger.ForSink("text"),
	}
}

func (s *TextSink) Name() string { return "text" }

// IndexPath returns the location of the running index
func (s *TextSink) IndexPath() string {
	return filepath.Join(s.baseDir, indexFileName)
}

// Save writes every article and then appends the batch to the index. Files
// written before a failure are kept.
func (s *TextSink) Save(batch Batch) error {
	if len(batch.Articles) == 0 {
		s.log.Warn().Msg("No articles to save")
		return nil
	}

	paths := make([]string, 0, len(batch.Articles))
	for _, a := range batch.Articles {
		path, err := s.writeArticle(a)
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}

	if err := s.appendIndex(batch, paths); err != nil {
		return err
	}

	s.log.Info().Int("file_count", len(paths)).Str("dir", s.baseDir).Msg("Saved text files")
	return nil
}

func (s *TextSink) Close() error { return nil }

// ArticlePath returns a path for a that does not exist yet
func (s *TextSink) ArticlePath(a crawler.ArticleRecord) string {
	region := string(a.Region)
	if region == "" {
		region = "unknown"
	}
	dir := filepath.Join(s.baseDir, region)
	stem := a.CollectedAt.Format(textTimestampLayout) + "_" + helpers.SanitizeFilename(a.Title, s.width)

	path := filepath.Join(dir, stem+".txt")
	for n := 2; fileExists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.txt", stem, n))
	}
	return path
}

func (s *TextSink) writeArticle(a crawler.ArticleRecord) (string, error) {
	path := s.ArticlePath(a)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", crawlerrors.NewSink(s.Name(), "failed to create "+filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(renderArticle(a)), 0o644); err != nil {
		return "", crawlerrors.NewSink(s.Name(), "failed to write "+path, err)
	}
	s.log.Debug().Str("path", path).Msg("Saved article")
	return path, nil
}

func renderArticle(a crawler.ArticleRecord) string {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(&b, "%s\n제목: %s\n%s\n\n", rule, a.Title, rule)
	fmt.Fprintf(&b, "신문사: %s\n", orNA(a.Source))
	fmt.Fprintf(&b, "지역: %s\n", orNA(string(a.Region)))
	fmt.Fprintf(&b, "발행일: %s\n", orNA(a.Date))
	fmt.Fprintf(&b, "기자: %s\n", orNA(a.Writer))
	fmt.Fprintf(&b, "URL: %s\n", orNA(a.URL))
	fmt.Fprintf(&b, "수집일시: %s\n", a.CollectedAtString())
	fmt.Fprintf(&b, "\n%s\n\n본문:\n\n%s\n\n%s\n", strings.Repeat("-", ruleWidth), orNA(a.Content), rule)
	return b.String()
}

// appendIndex adds one section per batch, grouped by region in first-seen order
func (s *TextSink) appendIndex(batch Batch, paths []string) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to create "+s.baseDir, err)
	}
	f, err := os.OpenFile(s.IndexPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to open index", err)
	}
	defer f.Close()

	var order []crawler.Region
	byRegion := make(map[crawler.Region][]int)
	for i, a := range batch.Articles {
		if _, ok := byRegion[a.Region]; !ok {
			order = append(order, a.Region)
		}
		byRegion[a.Region] = append(byRegion[a.Region], i)
	}

	w := bufio.NewWriter(f)
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w, "%s\n실행: %s\n생성일시: %s\n전체 기사 수: %d개\n%s\n", rule, orNA(batch.RunID),
		savedAt(batch).Format(crawler.CollectedAtLayout), len(batch.Articles), rule)
	for _, region := range order {
		idxs := byRegion[region]
		fmt.Fprintf(w, "\n[%s] (%d개)\n%s\n", orNA(string(region)), len(idxs), strings.Repeat("-", ruleWidth))
		for n, i := range idxs {
			a := batch.Articles[i]
			rel, err := filepath.Rel(s.baseDir, paths[i])
			if err != nil {
				rel = paths[i]
			}
			fmt.Fprintf(w, "%d. %s\n   신문: %s | 날짜: %s\n   파일: %s\n   URL: %s\n\n",
				n+1, a.Title, orNA(a.Source), orNA(a.Date), filepath.ToSlash(rel), a.URL)
		}
	}

	if err := w.Flush(); err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to write index", err)
	}
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
