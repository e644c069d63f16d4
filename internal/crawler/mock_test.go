package crawler

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"sjsage522/newsworker/helpers"
	"sjsage522/newsworker/services/cache"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

var fixedNow = func() time.Time {
	return time.Date(2026, 2, 23, 10, 0, 0, 0, time.Local)
}

// testOptions returns crawler options that never sleep between retries
func testOptions(c cache.CacheService) Options {
	return Options{
		Cache:     c,
		BlockTime: time.Minute,
		Timeout:   2 * time.Second,
		Retry: helpers.RetryPolicy{
			Attempts: 3,
			Backoff:  time.Millisecond,
			Sleep:    func(time.Duration) {},
		},
		Now: fixedNow,
	}
}

// testSite serves fixed HTML pages keyed by request URI and counts hits
type testSite struct {
	*httptest.Server

	mu     sync.Mutex
	pages  map[string]string
	status map[string]int
	hits   map[string]int
}

func newTestSite(t *testing.T, pages map[string]string) *testSite {
	site := &testSite{
		pages:  pages,
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		uri := r.URL.RequestURI()
		site.hits[uri]++
		status, hasStatus := site.status[uri]
		body, ok := site.pages[uri]
		site.mu.Unlock()

		if hasStatus {
			w.WriteHeader(status)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(site.Close)
	return site
}

func (s *testSite) setStatus(uri string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[uri] = status
}

func (s *testSite) hitCount(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[uri]
}

// stubCrawler is a Crawler whose listing and parsing are scripted
type stubCrawler struct {
	urls    []string
	listErr error
	parse   func(url string) (*ArticleRecord, error)
	parsed  []string
}

func (s *stubCrawler) GetName() string   { return "stub" }
func (s *stubCrawler) GetRegion() Region { return RegionSeoul }

func (s *stubCrawler) GetArticleURLs() ([]string, error) {
	return s.urls, s.listErr
}

func (s *stubCrawler) ParseArticle(url string) (*ArticleRecord, error) {
	s.parsed = append(s.parsed, url)
	if s.parse != nil {
		return s.parse(url)
	}
	return &ArticleRecord{Title: "title " + url, URL: url, Source: "stub", Newspaper: "stub", Region: RegionSeoul}, nil
}
