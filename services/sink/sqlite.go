package sink

import (
	"database/sql"
	"fmt"
	"time"

	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/logger"
	crawlerrors "sjsage522/newsworker/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS news (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT,
	url TEXT UNIQUE,
	date TEXT,
	writer TEXT,
	source TEXT,
	newspaper TEXT,
	region TEXT,
	summary TEXT,
	image_url TEXT,
	collected_at TEXT,
	created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_news_region ON news(region);

CREATE TABLE IF NOT EXISTS region_stats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	region TEXT NOT NULL,
	newspaper TEXT NOT NULL,
	article_count INTEGER NOT NULL,
	last_crawled TEXT,
	run_id TEXT,
	created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(region, newspaper)
);
`

// RegionStat is one row of the per-region, per-newspaper aggregate
type RegionStat struct {
	Region       crawler.Region
	Newspaper    string
	ArticleCount int
	LastCrawled  string
	RunID        string
}

// SQLiteSink stores articles in SQLite, skipping URLs it already has
type SQLiteSink struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteSink opens the database at dbPath and creates the tables
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, crawlerrors.NewSink("sqlite", "failed to open database", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, crawlerrors.NewSink("sqlite", "failed to initialize schema", err)
	}

	return &SQLiteSink{db: db, log: logger.ForSink("sqlite")}, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

// Save inserts the batch in one transaction and refreshes region_stats
func (s *SQLiteSink) Save(batch Batch) error {
	if len(batch.Articles) == 0 {
		s.log.Warn().Msg("No articles to save")
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO news
		(title, content, url, date, writer, source, newspaper, region, summary, image_url, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to prepare insert", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, a := range batch.Articles {
		res, err := stmt.Exec(a.Title, a.Content, a.URL, a.Date, a.Writer, a.Source, a.Newspaper,
			string(a.Region), a.Summary, a.ImageURL, a.CollectedAtString())
		if err != nil {
			return crawlerrors.NewSink(s.Name(), fmt.Sprintf("failed to insert %s", a.URL), err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		} else {
			s.log.Debug().Str("url", a.URL).Msg("Duplicate URL skipped")
		}
	}

	_, err = tx.Exec(`
		INSERT INTO region_stats (region, newspaper, article_count, last_crawled, run_id)
		SELECT region, newspaper, COUNT(*), ?, ? FROM news WHERE true GROUP BY region, newspaper
		ON CONFLICT(region, newspaper) DO UPDATE SET
			article_count = excluded.article_count,
			last_crawled = excluded.last_crawled,
			run_id = excluded.run_id`,
		savedAt(batch).Format(crawler.CollectedAtLayout), batch.RunID)
	if err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to refresh region stats", err)
	}

	if err := tx.Commit(); err != nil {
		return crawlerrors.NewSink(s.Name(), "failed to commit", err)
	}

	s.log.Info().Int("inserted", inserted).Int("skipped", len(batch.Articles)-inserted).Msg("Saved to database")
	return nil
}

// TotalCount returns the number of stored articles
func (s *SQLiteSink) TotalCount() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM news`).Scan(&count); err != nil {
		return 0, crawlerrors.NewSink(s.Name(), "failed to count articles", err)
	}
	return count, nil
}

// ArticlesByRegion returns the stored articles of a region, newest first
func (s *SQLiteSink) ArticlesByRegion(region crawler.Region) ([]crawler.ArticleRecord, error) {
	rows, err := s.db.Query(`
		SELECT title, content, url, date, writer, source, newspaper, region, summary, image_url, collected_at
		FROM news WHERE region = ? ORDER BY collected_at DESC, id DESC`, string(region))
	if err != nil {
		return nil, crawlerrors.NewSink(s.Name(), "failed to query articles", err)
	}
	defer rows.Close()

	var articles []crawler.ArticleRecord
	for rows.Next() {
		var (
			a                                        crawler.ArticleRecord
			content, date, writer, summary, imageURL sql.NullString
			regionName, collectedAt                  string
		)
		if err := rows.Scan(&a.Title, &content, &a.URL, &date, &writer, &a.Source, &a.Newspaper,
			&regionName, &summary, &imageURL, &collectedAt); err != nil {
			return nil, crawlerrors.NewSink(s.Name(), "failed to scan article", err)
		}
		a.Content = content.String
		a.Date = date.String
		a.Writer = writer.String
		a.Summary = summary.String
		a.ImageURL = imageURL.String
		a.Region = crawler.Region(regionName)
		a.CollectedAt, _ = parseCollectedAt(collectedAt)
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, crawlerrors.NewSink(s.Name(), "failed to read articles", err)
	}
	return articles, nil
}

// RegionStats returns the aggregate table ordered by article count
func (s *SQLiteSink) RegionStats() ([]RegionStat, error) {
	rows, err := s.db.Query(`
		SELECT region, newspaper, article_count, COALESCE(last_crawled, ''), COALESCE(run_id, '')
		FROM region_stats ORDER BY article_count DESC, region, newspaper`)
	if err != nil {
		return nil, crawlerrors.NewSink(s.Name(), "failed to query region stats", err)
	}
	defer rows.Close()

	var stats []RegionStat
	for rows.Next() {
		var (
			st     RegionStat
			region string
		)
		if err := rows.Scan(&region, &st.Newspaper, &st.ArticleCount, &st.LastCrawled, &st.RunID); err != nil {
			return nil, crawlerrors.NewSink(s.Name(), "failed to scan region stats", err)
		}
		st.Region = crawler.Region(region)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, crawlerrors.NewSink(s.Name(), "failed to read region stats", err)
	}
	return stats, nil
}

// Close closes the database connection
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func parseCollectedAt(s string) (time.Time, error) {
	return time.ParseInLocation(crawler.CollectedAtLayout, s, time.Local)
}
