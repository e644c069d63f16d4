package logger

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForCrawler(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Unsetenv("LOG_LEVEL")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	ForCrawler("서울신문").Info().Int("articles", 3).Msg("crawl complete")

	out := buf.String()
	assert.Contains(t, out, "서울신문")
	assert.Contains(t, out, "crawl complete")
	assert.Contains(t, out, "articles=3")
}

func TestForSink_LevelFilter(t *testing.T) {
	os.Setenv("LOG_LEVEL", "info")
	defer os.Unsetenv("LOG_LEVEL")

	var buf bytes.Buffer
	InitWithWriter(&buf)

	log := ForSink("csv")
	log.Error().Err(errors.New("file locked")).Msg("failed to save news.csv")
	log.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "file locked")
	assert.Contains(t, out, "failed to save news.csv")
	assert.Contains(t, out, "sink=csv")
	assert.NotContains(t, out, "hidden")
}

func TestGetLogLevel_Production(t *testing.T) {
	os.Unsetenv("LOG_LEVEL")
	os.Setenv("NEWS_ENVIRONMENT", "production")
	defer os.Unsetenv("NEWS_ENVIRONMENT")

	assert.Equal(t, "info", getLogLevel().String())
}
