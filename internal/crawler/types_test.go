package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRegion(t *testing.T) {
	testCases := []struct {
		input    string
		expected Region
	}{
		{"서울", RegionSeoul},
		{"seoul", RegionSeoul},
		{"Gyeonggi", RegionGyeonggi},
		{" 강원도 ", RegionGangwon},
		{"jeju", RegionJeju},
		{"전국", RegionNational},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseRegion(tc.input)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	_, err := ParseRegion("부산")
	assert.Error(t, err)
}

func TestRegions(t *testing.T) {
	all := Regions()
	assert.Len(t, all, 9)
	assert.Equal(t, RegionSeoul, all[0])
	assert.Equal(t, "chungcheong", RegionChungcheong.Slug())
	assert.Equal(t, "unknown", Region("unknown").Slug())
}

func TestCrawlerConfig_Validate(t *testing.T) {
	valid := CrawlerConfig{
		Newspaper: "신문",
		BaseURL:   "https://example.com",
		ListURL:   "https://example.com/list",
		Selectors: Selectors{Link: "a"},
	}
	assert.NoError(t, valid.Validate())

	missingLink := valid
	missingLink.Selectors.Link = ""
	assert.Error(t, missingLink.Validate())

	badStrategy := valid
	badStrategy.Strategy = "readability"
	assert.Error(t, badStrategy.Validate())

	missingList := valid
	missingList.ListURL = ""
	assert.Error(t, missingList.Validate())
}

func TestCrawlerConfig_Defaults(t *testing.T) {
	cfg := CrawlerConfig{Newspaper: "신문", MaxPages: 10000}.withDefaults()

	assert.Equal(t, 500, cfg.MaxPages)
	assert.Equal(t, 50, cfg.MaxURLs)
	assert.Equal(t, StrategySelector, cfg.Strategy)
	assert.Equal(t, RegionNational, cfg.Region)
	assert.NotEmpty(t, cfg.TitleSelectors)
	assert.NotEmpty(t, cfg.NoiseKeywords)
	assert.Equal(t, "news_rate_limited:신문", cfg.CacheKey)

	assert.Equal(t, 1, CrawlerConfig{}.withDefaults().MaxPages)

	// an explicit empty keyword list disables noise filtering
	assert.Empty(t, CrawlerConfig{NoiseKeywords: []string{}}.withDefaults().NoiseKeywords)
}
