package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/newsworker/config"
	"sjsage522/newsworker/internal/crawler"
	"sjsage522/newsworker/logger"
	"sjsage522/newsworker/services/manager"
	"sjsage522/newsworker/services/sink"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	modeAll    = "all"
	modeRegion = "region"
)

// runFlags are shared by run and schedule
type runFlags struct {
	mode       string
	region     string
	articles   int
	output     string
	saveDB     bool
	noSaveDB   bool
	saveText   bool
	noSaveText bool
	publish    bool
	newspapers string
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "newsworker",
		Short:         "Collect regional economic news from Korean newspapers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand(), newScheduleCommand(), newListCommand(), newStatsCommand())
	return root
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.mode, "mode", modeAll, "crawl mode: all or region")
	flags.StringVar(&f.region, "region", "", "region to crawl in region mode (Korean name or slug)")
	flags.IntVar(&f.articles, "articles", 0, "maximum articles per newspaper (default NEWS_MAX_ARTICLES)")
	flags.StringVar(&f.output, "output", "", "CSV output path (default NEWS_CSV_PATH)")
	flags.BoolVar(&f.saveDB, "save-db", false, "save to the SQLite database")
	flags.BoolVar(&f.noSaveDB, "no-save-db", false, "do not save to the SQLite database")
	flags.BoolVar(&f.saveText, "save-text", false, "save one text file per article")
	flags.BoolVar(&f.noSaveText, "no-save-text", false, "do not save text files")
	flags.BoolVar(&f.publish, "publish", false, "publish articles to the Redis stream")
	flags.StringVar(&f.newspapers, "newspapers", "", "YAML file with additional newspapers")
	cmd.MarkFlagsMutuallyExclusive("save-db", "no-save-db")
	cmd.MarkFlagsMutuallyExclusive("save-text", "no-save-text")
}

// loadConfig reads the environment and applies the command line overrides
func loadConfig(cmd *cobra.Command, f *runFlags) (config.Config, error) {
	cfg := config.LoadConfig()
	flags := cmd.Flags()

	if f.articles > 0 {
		cfg.MaxArticles = f.articles
	}
	if f.newspapers != "" {
		cfg.NewspapersFile = f.newspapers
	}
	if f.output != "" {
		cfg.CSVPath = f.output
	}
	if flags.Changed("save-db") {
		cfg.SaveDB = f.saveDB
	}
	if flags.Changed("no-save-db") {
		cfg.SaveDB = !f.noSaveDB
	}
	if flags.Changed("save-text") {
		cfg.SaveText = f.saveText
	}
	if flags.Changed("no-save-text") {
		cfg.SaveText = !f.noSaveText
	}
	if flags.Changed("publish") {
		cfg.Publish = f.publish
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	switch f.mode {
	case modeAll:
	case modeRegion:
		if f.region == "" {
			return cfg, fmt.Errorf("--region is required in region mode")
		}
		if _, err := crawler.ParseRegion(f.region); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unknown mode %q, expected %s or %s", f.mode, modeAll, modeRegion)
	}
	return cfg, nil
}

// runBatch crawls once according to f, prints the statistics and saves
func runBatch(svc *Services, cfg *config.Config, f *runFlags) error {
	var result *manager.Result
	if f.mode == modeRegion {
		region, _ := crawler.ParseRegion(f.region)
		if !hasRegion(svc.Manager.Crawlers(), region) {
			return fmt.Errorf("%w for region %s", errNoCrawlers, region)
		}
		result = svc.Manager.RunRegion(region, cfg.MaxArticles)
	} else {
		result = svc.Manager.RunAll(cfg.MaxArticles)
	}

	manager.RenderStats(os.Stdout, result)
	return svc.Manager.Save(result)
}

func hasRegion(crawlers []crawler.Crawler, region crawler.Region) bool {
	for _, c := range crawlers {
		if c.GetRegion() == region {
			return true
		}
	}
	return false
}

func newRunCommand() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Crawl once and save the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			logger.Default.Info().
				Str("environment", cfg.Environment).
				Str("mode", f.mode).
				Int("max_articles", cfg.MaxArticles).
				Msg("Starting news worker")

			svc, err := initializeServices(cmd.Context(), &cfg)
			if err != nil {
				return err
			}
			defer svc.Cleanup()

			return runBatch(svc, &cfg, f)
		},
	}
	addRunFlags(cmd, f)
	return cmd
}

func newScheduleCommand() *cobra.Command {
	f := &runFlags{}
	var spec string
	var runNow bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Crawl on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			if spec == "" {
				spec = cfg.CronSpec
			}

			// Set up signal handling
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := initializeServices(ctx, &cfg)
			if err != nil {
				return err
			}
			defer svc.Cleanup()

			job := func() {
				if err := runBatch(svc, &cfg, f); err != nil {
					logger.Default.Error().Err(err).Msg("Scheduled batch failed")
				}
			}
			scheduler, err := manager.NewScheduler(spec, job)
			if err != nil {
				return err
			}
			if runNow {
				job()
			}
			return scheduler.Run(ctx)
		},
	}
	addRunFlags(cmd, f)
	cmd.Flags().StringVar(&spec, "cron", "", "cron expression (default NEWS_CRON)")
	cmd.Flags().BoolVar(&runNow, "now", false, "run one batch immediately before waiting for the schedule")
	return cmd
}

func newListCommand() *cobra.Command {
	var newspapers string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the configured newspapers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if newspapers != "" {
				cfg.NewspapersFile = newspapers
			}

			factory := crawler.NewFactory(crawler.Options{})
			if err := registerNewspapers(factory, cfg.NewspapersFile); err != nil {
				return err
			}
			m := manager.NewManager(crawler.CrawlOptions{})
			if err := m.RegisterDefaults(factory); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Newspaper", "Region", "Parser", "Listing"})
			for _, c := range m.Crawlers() {
				parser, listing := "preset", ""
				if preset, ok := factory.Preset(c.GetName()); ok {
					listing = preset.ListURL
				}
				if crawler.IsHandWritten(c.GetName()) {
					parser = "hand-written"
				}
				t.AppendRow(table.Row{c.GetName(), string(c.GetRegion()), parser, listing})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&newspapers, "newspapers", "", "YAML file with additional newspapers")
	return cmd
}

func newStatsCommand() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show what is stored in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			if _, err := os.Stat(cfg.DBPath); err != nil {
				return fmt.Errorf("database %s not found: %w", cfg.DBPath, err)
			}

			db, err := sink.NewSQLiteSink(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			total, err := db.TotalCount()
			if err != nil {
				return err
			}
			stats, err := db.RegionStats()
			if err != nil {
				return err
			}
			manager.RenderRegionStats(os.Stdout, total, stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default NEWS_DB_PATH)")
	return cmd
}
