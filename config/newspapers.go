package config

import (
	"fmt"
	"os"

	"sjsage522/newsworker/internal/crawler"
	crawlerrors "sjsage522/newsworker/pkg/errors"

	"gopkg.in/yaml.v3"
)

// newspaperList is the layout of a newspaper definitions file
type newspaperList struct {
	Newspapers []crawler.CrawlerConfig `yaml:"newspapers"`
}

// LoadNewspapers reads crawler configurations from a YAML file. Regions may
// be written either in Korean or as their English slug.
func LoadNewspapers(path string) ([]crawler.CrawlerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, crawlerrors.NewConfiguration(fmt.Sprintf("failed to read newspapers file %s", path), err)
	}

	var file newspaperList
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, crawlerrors.NewConfiguration(fmt.Sprintf("failed to parse newspapers file %s", path), err)
	}
	if len(file.Newspapers) == 0 {
		return nil, crawlerrors.NewConfiguration(fmt.Sprintf("no newspapers defined in %s", path), nil)
	}

	seen := make(map[string]bool, len(file.Newspapers))
	for i := range file.Newspapers {
		cfg := &file.Newspapers[i]
		if cfg.Region != "" {
			region, err := crawler.ParseRegion(string(cfg.Region))
			if err != nil {
				return nil, crawlerrors.NewConfiguration(fmt.Sprintf("newspaper %q", cfg.Newspaper), err)
			}
			cfg.Region = region
		}
		if err := cfg.Validate(); err != nil {
			return nil, crawlerrors.NewConfiguration(fmt.Sprintf("newspaper #%d", i+1), err)
		}
		if seen[cfg.Newspaper] {
			return nil, crawlerrors.NewConfiguration(fmt.Sprintf("newspaper %q defined twice", cfg.Newspaper), nil)
		}
		seen[cfg.Newspaper] = true
	}

	return file.Newspapers, nil
}
