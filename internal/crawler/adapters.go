package crawler

// adapterBuilder builds a crawler for a preset whose article pages need
// site-specific parsing
type adapterBuilder func(cfg CrawlerConfig, opts Options) Crawler

// handWritten lists the adapters in run order
var handWritten = []struct {
	newspaper string
	build     adapterBuilder
}{
	{"서울신문", func(cfg CrawlerConfig, opts Options) Crawler { return NewSeoulShinmunCrawler(cfg, opts) }},
	{"경기일보", func(cfg CrawlerConfig, opts Options) Crawler { return NewGyeonggiIlboCrawler(cfg, opts) }},
	{"강원도민일보", func(cfg CrawlerConfig, opts Options) Crawler { return NewGangwonDominIlboCrawler(cfg, opts) }},
	{"충청뉴스", func(cfg CrawlerConfig, opts Options) Crawler { return NewChungcheongNewsCrawler(cfg, opts) }},
}

// HandWrittenNames returns the newspapers parsed by a dedicated adapter, in
// run order
func HandWrittenNames() []string {
	names := make([]string, len(handWritten))
	for i, a := range handWritten {
		names[i] = a.newspaper
	}
	return names
}

// IsHandWritten reports whether newspaper is parsed by a dedicated adapter
func IsHandWritten(newspaper string) bool {
	_, ok := adapterFor(newspaper)
	return ok
}

func adapterFor(newspaper string) (adapterBuilder, bool) {
	for _, a := range handWritten {
		if a.newspaper == newspaper {
			return a.build, true
		}
	}
	return nil, false
}

// HandWritten builds the dedicated adapters from the factory's presets, so a
// preset replaced with Register reaches the adapter
func HandWritten(f *Factory) []Crawler {
	var crawlers []Crawler
	for _, name := range HandWrittenNames() {
		c, err := f.Create(name)
		if err != nil {
			continue
		}
		crawlers = append(crawlers, c)
	}
	return crawlers
}
