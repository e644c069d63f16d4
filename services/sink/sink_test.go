package sink

import (
	"context"
	"time"

	"sjsage522/newsworker/internal/crawler"
)

var collected = time.Date(2026, 2, 23, 9, 30, 15, 0, time.Local)

func testArticles() []crawler.ArticleRecord {
	return []crawler.ArticleRecord{
		{
			Title: "서울 소비 회복", Content: "본문 1", URL: "https://news.example.com/1", Date: "2026-02-21",
			Writer: "김서울", Source: "서울신문", Newspaper: "서울신문", Region: crawler.RegionSeoul, CollectedAt: collected,
		},
		{
			Title: "경기 수출 증가", Content: "본문 2, \"인용\"", URL: "https://news.example.com/2", Date: "2026-02-22",
			Source: "경기일보", Newspaper: "경기일보", Region: crawler.RegionGyeonggi, CollectedAt: collected,
		},
		{
			Title: "서울 물가 동향", Content: "본문 3", URL: "https://news.example.com/3",
			Source: "서울신문", Newspaper: "서울신문", Region: crawler.RegionSeoul, CollectedAt: collected,
		},
	}
}

func testBatch() Batch {
	return Batch{RunID: "run-1", Articles: testArticles(), SavedAt: collected}
}

// fakePublisher records published messages in memory
type fakePublisher struct {
	keys     []string
	messages [][]byte
	trimmed  int
	closed   bool
	err      error
}

func (p *fakePublisher) Publish(key string, message []byte) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.messages = append(p.messages, message)
	return nil
}

func (p *fakePublisher) TrimStreams() error {
	p.trimmed++
	return nil
}

func (p *fakePublisher) Ping(ctx context.Context) error { return nil }

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}
