package crawler

import (
	"sort"
	"testing"

	crawlerrors "sjsage522/newsworker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_List(t *testing.T) {
	f := NewFactory(testOptions(nil))
	names := f.List()

	assert.Len(t, names, 13)
	assert.True(t, sort.StringsAreSorted(names))
	for _, name := range []string{"서울신문", "경기일보", "강원도민일보", "강원일보", "경인일보", "인천일보",
		"충청뉴스", "매일신문", "부산일보", "경남경제", "광주일보", "제주일보", "한국경제"} {
		assert.Contains(t, names, name)
	}
}

func TestFactory_PresetsAreValid(t *testing.T) {
	for _, cfg := range presetConfigs() {
		t.Run(cfg.Newspaper, func(t *testing.T) {
			assert.NoError(t, cfg.Validate())
			_, err := ParseRegion(string(cfg.Region))
			assert.NoError(t, err)
		})
	}
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory(testOptions(nil))

	c, err := f.Create("강원일보")
	require.NoError(t, err)
	assert.Equal(t, "강원일보", c.GetName())
	assert.Equal(t, RegionGangwon, c.GetRegion())

	configurable, ok := c.(*ConfigurableCrawler)
	require.True(t, ok)
	assert.Equal(t, StrategySelector, configurable.Config.Strategy)
	assert.Equal(t, 50, configurable.Config.MaxURLs)
}

func TestFactory_CreateUnknown(t *testing.T) {
	f := NewFactory(testOptions(nil))

	c, err := f.Create("없는신문")
	assert.Nil(t, c)
	assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeLookup))
	assert.Contains(t, err.Error(), "없는신문")
}

func TestFactory_CreateCustom(t *testing.T) {
	f := NewFactory(testOptions(nil))

	_, err := f.CreateCustom(CrawlerConfig{Newspaper: "빈설정"})
	assert.True(t, crawlerrors.IsType(err, crawlerrors.ErrorTypeValidation))

	c, err := f.CreateCustom(CrawlerConfig{
		Newspaper: "새신문",
		Region:    RegionJeolla,
		BaseURL:   "https://news.example.com",
		ListURL:   "https://news.example.com/economy",
		Selectors: Selectors{Link: "a.title"},
		Strategy:  StrategyTextLines,
	})
	require.NoError(t, err)
	assert.Equal(t, "새신문", c.GetName())
	assert.Equal(t, RegionJeolla, c.GetRegion())

	// custom crawlers are not registered
	assert.NotContains(t, f.List(), "새신문")
}

func TestFactory_Register(t *testing.T) {
	f := NewFactory(testOptions(nil))

	err := f.Register(CrawlerConfig{
		Newspaper: "대전일보",
		Region:    RegionChungcheong,
		BaseURL:   "https://www.daejonilbo.com",
		ListURL:   "https://www.daejonilbo.com/economy?page={page}",
		Selectors: Selectors{Link: "a.title"},
	})
	require.NoError(t, err)
	assert.Contains(t, f.List(), "대전일보")

	c, err := f.Create("대전일보")
	require.NoError(t, err)
	assert.Equal(t, RegionChungcheong, c.GetRegion())

	err = f.Register(CrawlerConfig{Newspaper: "불완전"})
	assert.Error(t, err)
	assert.NotContains(t, f.List(), "불완전")
}
