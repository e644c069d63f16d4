package main

import (
	"context"
	"errors"
	"fmt"

	"sjsage522/newsworker/config"
	"sjsage522/newsworker/helpers"
	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/services/cache"
	"sjsage522/newsworker/services/manager"
	"sjsage522/newsworker/services/publisher"
	"sjsage522/newsworker/services/sink"
)

// Services holds all the initialized services
type Services struct {
	Cache   cache.CacheService
	Factory *crawler.Factory
	Manager *manager.Manager
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Manager != nil {
		if err := s.Manager.Close(); err != nil {
			logger.Default.Warn().Err(err).Msg("Failed to close sinks")
		}
	}
}

// initializeServices builds the cache, the crawler factory, the enabled
// sinks and a manager with every newspaper registered
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	log := logger.Default
	services := &Services{}

	services.Cache = newCache(cfg)

	services.Factory = crawler.NewFactory(crawler.Options{
		Cache:     services.Cache,
		BlockTime: cfg.BlockTime,
		Timeout:   cfg.RequestTimeout,
		Retry:     helpers.DefaultRetryPolicy,
	})
	if err := registerNewspapers(services.Factory, cfg.NewspapersFile); err != nil {
		return nil, err
	}

	sinks, err := newSinks(ctx, cfg)
	if err != nil {
		for _, s := range sinks {
			s.Close()
		}
		return nil, err
	}

	services.Manager = manager.NewManager(crawler.CrawlOptions{Delay: cfg.PolitenessDelay}, sinks...)
	if err := services.Manager.RegisterDefaults(services.Factory); err != nil {
		services.Cleanup()
		return nil, err
	}

	log.Info().
		Int("crawler_count", len(services.Manager.Crawlers())).
		Int("sink_count", len(sinks)).
		Msg("Services initialized")
	return services, nil
}

// newCache prefers memcache so that rate-limit blocks outlive the process,
// falling back to an in-process cache
func newCache(cfg *config.Config) cache.CacheService {
	log := logger.ForCache()
	if cfg.MemcacheAddr == "" {
		log.Debug().Msg("Using in-memory cache")
		return cache.NewMemoryCache()
	}

	mc := cache.NewMemcacheService(cfg.MemcacheAddr)
	if err := mc.Ping(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, using in-memory cache")
		return cache.NewMemoryCache()
	}
	log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
	return mc
}

// registerNewspapers adds the newspapers defined in path to the factory
func registerNewspapers(f *crawler.Factory, path string) error {
	if path == "" {
		return nil
	}
	configs, err := config.LoadNewspapers(path)
	if err != nil {
		return err
	}
	for _, c := range configs {
		if err := f.Register(c); err != nil {
			return err
		}
	}
	logger.Default.Info().Int("count", len(configs)).Str("path", path).Msg("Loaded newspapers")
	return nil
}

// newSinks opens the enabled sinks in save order: CSV, database, text files
// and finally the stream
func newSinks(ctx context.Context, cfg *config.Config) ([]sink.Sink, error) {
	sinks := []sink.Sink{sink.NewCSVSink(cfg.CSVPath)}

	if cfg.SaveDB {
		db, err := sink.NewSQLiteSink(cfg.DBPath)
		if err != nil {
			return sinks, err
		}
		sinks = append(sinks, db)
	}

	if cfg.SaveText {
		sinks = append(sinks, sink.NewTextSink(cfg.TextDir))
	}

	if cfg.Publish {
		p := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength)
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return sinks, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.ForPublisher().Info().Str("addr", cfg.RedisAddr).Int("db", cfg.RedisDB).Str("stream", cfg.RedisStream).Msg("Connected to Redis")
		sinks = append(sinks, sink.NewStreamSink(p))
	}

	return sinks, nil
}

// errNoCrawlers is returned when a run selects no newspaper
var errNoCrawlers = errors.New("no crawlers selected")
