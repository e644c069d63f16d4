package crawler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	crawlerrors "sjsage522/newsworker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawl_CapStopsFetching(t *testing.T) {
	stub := &stubCrawler{urls: []string{"u1", "u2", "u3", "u4", "u5"}}

	records, err := Crawl(stub, CrawlOptions{MaxArticles: 2, Sleep: func(time.Duration) {}})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, []string{"u1", "u2"}, stub.parsed)
}

func TestCrawl_SkipsFailedAndUntitledArticles(t *testing.T) {
	stub := &stubCrawler{
		urls: []string{"bad", "untitled", "good"},
		parse: func(url string) (*ArticleRecord, error) {
			switch url {
			case "bad":
				return nil, crawlerrors.NewHTTPStatus("stub", http.StatusNotFound)
			case "untitled":
				return nil, nil
			}
			return &ArticleRecord{Title: "ok", URL: url}, nil
		},
	}

	records, err := Crawl(stub, CrawlOptions{MaxArticles: 10, Sleep: func(time.Duration) {}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].URL)
	assert.Len(t, stub.parsed, 3)
}

func TestCrawl_PolitenessDelay(t *testing.T) {
	var waits []time.Duration
	stub := &stubCrawler{urls: []string{"u1", "u2", "u3"}}

	_, err := Crawl(stub, CrawlOptions{
		Delay: DefaultPolitenessDelay,
		Sleep: func(d time.Duration) { waits = append(waits, d) },
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 300 * time.Millisecond}, waits)
}

func TestCrawl_ListingErrorIsReturned(t *testing.T) {
	listErr := crawlerrors.NewUnreachable("stub", errors.New("connection refused"))
	stub := &stubCrawler{listErr: listErr}

	records, err := Crawl(stub, CrawlOptions{MaxArticles: 5})
	assert.Nil(t, records)
	assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeUnreachable))
	assert.Empty(t, stub.parsed)
}

func TestCrawl_StopsWhenRateLimited(t *testing.T) {
	stub := &stubCrawler{
		urls: []string{"u1", "u2", "u3"},
		parse: func(url string) (*ArticleRecord, error) {
			if url == "u2" {
				return nil, crawlerrors.NewRateLimit("stub", time.Minute)
			}
			return &ArticleRecord{Title: "t", URL: url}, nil
		},
	}

	records, err := Crawl(stub, CrawlOptions{Sleep: func(time.Duration) {}})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, []string{"u1", "u2"}, stub.parsed)
}

func TestBaseCrawler_RetriesAtMostThreeTimes(t *testing.T) {
	site := newTestSite(t, map[string]string{})
	site.setStatus("/flaky", http.StatusBadGateway)

	base := NewBaseCrawler("Test", RegionSeoul, site.URL, testOptions(nil))
	_, err := base.fetchWithCache(site.URL + "/flaky")

	assert.Error(t, err)
	assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeHTTPStatus))
	assert.Equal(t, 3, site.hitCount("/flaky"))
}

func TestBaseCrawler_DoesNotRetryClientErrors(t *testing.T) {
	site := newTestSite(t, map[string]string{})

	base := NewBaseCrawler("Test", RegionSeoul, site.URL, testOptions(nil))
	_, err := base.fetchWithCache(site.URL + "/missing")

	assert.Error(t, err)
	assert.Equal(t, 1, site.hitCount("/missing"))
}

func TestBaseCrawler_RateLimitBlocksSource(t *testing.T) {
	site := newTestSite(t, map[string]string{"/ok": "<html></html>"})
	site.setStatus("/limited", http.StatusTooManyRequests)
	mockCache := NewMockCacheService()

	base := NewBaseCrawler("Test", RegionSeoul, site.URL, testOptions(mockCache))

	_, err := base.fetchWithCache(site.URL + "/limited")
	assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeRateLimit))
	assert.Equal(t, 1, site.hitCount("/limited"))

	blocked, err := mockCache.Get(base.CacheKey)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d", 60), string(blocked))

	// blocked sources do not touch the network
	_, err = base.fetchWithCache(site.URL + "/ok")
	assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeRateLimit))
	assert.Equal(t, 0, site.hitCount("/ok"))

	require.NoError(t, mockCache.Delete(base.CacheKey))
	body, err := base.fetchWithCache(site.URL + "/ok")
	require.NoError(t, err)
	data, _ := io.ReadAll(body)
	assert.Contains(t, string(data), "<html>")
}

func TestBaseCrawler_Identity(t *testing.T) {
	base := NewBaseCrawler("서울신문", RegionSeoul, "https://www.seoul.co.kr", testOptions(nil))

	assert.Equal(t, "서울신문", base.GetName())
	assert.Equal(t, RegionSeoul, base.GetRegion())
	assert.Equal(t, "https://www.seoul.co.kr/news/1", base.resolveURL("/news/1"))

	record := base.newRecord("https://www.seoul.co.kr/news/1", "  제목  ")
	assert.Equal(t, "제목", record.Title)
	assert.Equal(t, "서울신문", record.Source)
	assert.Equal(t, "서울신문", record.Newspaper)
	assert.Equal(t, RegionSeoul, record.Region)
	assert.Equal(t, "2026-02-23 10:00:00", record.CollectedAtString())
}
