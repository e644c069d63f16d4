package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"time"

	crawlerrors "sjsage522/newsworker/pkg/errors"

	"golang.org/x/net/html/charset"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.naver.com/",
		"https://www.daum.net/",
	}
)

// DefaultTimeout is the per-request timeout used by NewFetcher
const DefaultTimeout = 10 * time.Second

// Fetcher issues GET requests for one source. Each crawler owns its own
// Fetcher so connection state is never shared between sources.
type Fetcher struct {
	Provider  string
	UserAgent string
	Referer   string
	client    *http.Client
}

// NewFetcher creates a fetcher with its own HTTP client
func NewFetcher(provider string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	return &Fetcher{
		Provider:  provider,
		UserAgent: userAgents[rnd.Intn(len(userAgents))],
		Referer:   referers[rnd.Intn(len(referers))],
		client:    &http.Client{Timeout: timeout},
	}
}

// Fetch sends a GET request with browser-like headers and returns the body
// converted to UTF-8. Transport failures are returned as network errors,
// non-200 responses as status errors and 429/430 as rate-limit errors.
func (f *Fetcher) Fetch(url string) (io.Reader, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, crawlerrors.NewValidation(f.Provider, fmt.Sprintf("failed to create request: %v", err))
	}

	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	if f.Referer != "" {
		req.Header.Set("Referer", f.Referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, crawlerrors.NewNetwork(f.Provider, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		retryAfter := resp.Header.Get("Retry-After")
		e := crawlerrors.New(crawlerrors.ErrorTypeRateLimit, f.Provider, "rate limited; retry after "+retryAfter, nil)
		e.StatusCode = resp.StatusCode
		return nil, e
	}

	if resp.StatusCode != http.StatusOK {
		return nil, crawlerrors.NewHTTPStatus(f.Provider, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, crawlerrors.NewNetwork(f.Provider, "failed to read response body", err)
	}

	return toUTF8(bodyBytes, resp.Header.Get("Content-Type"))
}

// toUTF8 determines the encoding from the Content-Type header and body
// content and converts the body when it is not already UTF-8
func toUTF8(body []byte, contentType string) (io.Reader, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)

	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(body), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, errors.Join(errors.New("failed to read converted UTF-8 body"), err)
	}

	return &buf, nil
}
