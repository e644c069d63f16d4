package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int64

	// Memcache configuration; empty falls back to the in-process cache
	MemcacheAddr string

	// Crawler configuration
	MaxArticles     int
	PolitenessDelay time.Duration
	RequestTimeout  time.Duration
	BlockTime       time.Duration
	NewspapersFile  string

	// Output configuration
	CSVPath  string
	DBPath   string
	TextDir  string
	SaveDB   bool
	SaveText bool
	Publish  bool

	// Scheduling
	CronSpec string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMaxLength, _ := strconv.ParseInt(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"), 10, 64)
	maxArticles, _ := strconv.Atoi(getEnv("NEWS_MAX_ARTICLES", "10"))
	delayMs, _ := strconv.Atoi(getEnv("NEWS_POLITENESS_DELAY_MS", "300"))
	timeoutSec, _ := strconv.Atoi(getEnv("NEWS_REQUEST_TIMEOUT_SECONDS", "10"))
	blockSec, _ := strconv.Atoi(getEnv("NEWS_BLOCK_SECONDS", "300"))

	return Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "news"),
		RedisStreamCount:     redisStreamCount,
		RedisStreamMaxLength: redisStreamMaxLength,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		MaxArticles:          maxArticles,
		PolitenessDelay:      time.Duration(delayMs) * time.Millisecond,
		RequestTimeout:       time.Duration(timeoutSec) * time.Second,
		BlockTime:            time.Duration(blockSec) * time.Second,
		NewspapersFile:       getEnv("NEWS_NEWSPAPERS_FILE", ""),
		CSVPath:              getEnv("NEWS_CSV_PATH", "economic_news.csv"),
		DBPath:               getEnv("NEWS_DB_PATH", "news_data.db"),
		TextDir:              getEnv("NEWS_TEXT_DIR", "news_texts"),
		SaveDB:               getBool("NEWS_SAVE_DB", true),
		SaveText:             getBool("NEWS_SAVE_TEXT", true),
		Publish:              getBool("NEWS_PUBLISH", false),
		CronSpec:             getEnv("NEWS_CRON", "0 9 * * *"),
		Environment:          getEnv("NEWS_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.MaxArticles <= 0 {
		return fmt.Errorf("NEWS_MAX_ARTICLES must be positive, got %d", c.MaxArticles)
	}
	if c.PolitenessDelay < 0 {
		return fmt.Errorf("NEWS_POLITENESS_DELAY_MS must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("NEWS_REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.CSVPath == "" {
		return fmt.Errorf("NEWS_CSV_PATH is required")
	}
	if c.SaveDB && c.DBPath == "" {
		return fmt.Errorf("NEWS_DB_PATH is required when saving to the database")
	}
	if c.SaveText && c.TextDir == "" {
		return fmt.Errorf("NEWS_TEXT_DIR is required when saving text files")
	}
	if c.Publish {
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when publishing")
		}
		if c.RedisStreamCount < 1 {
			return fmt.Errorf("REDIS_STREAM_COUNT must be at least 1")
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
