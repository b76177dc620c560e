package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"elpais-opinion/internal/app"
	"elpais-opinion/internal/config"
	"elpais-opinion/internal/observability"
	"elpais-opinion/internal/scraper"
	"elpais-opinion/internal/session"
	"elpais-opinion/internal/translate"
)

var version = "dev"

type runFlags struct {
	configPath string
	articles   int
	paragraphs int
	threshold  int
	from       string
	to         string
	driver     string
	debug      bool
}

func newRootCommand() *cobra.Command {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:           "elpais-opinion",
		Short:         "Scrape El País opinion articles and report repeated words in their translated titles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
				return err
			}
			if err := run(cmd.Context(), cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
				return err
			}
			return nil
		},
	}

	f := root.Flags()
	f.StringVar(&flags.configPath, "config", "", "path to YAML config (built-in defaults when empty)")
	f.IntVar(&flags.articles, "articles", 0, "number of articles to scrape (default 5)")
	f.IntVar(&flags.paragraphs, "paragraphs", 0, "paragraphs kept per article (default 3)")
	f.IntVar(&flags.threshold, "threshold", 0, "report words seen more than this many times (default 2)")
	f.StringVar(&flags.from, "from", "", "source language (default es)")
	f.StringVar(&flags.to, "to", "", "target language (default en)")
	f.StringVar(&flags.driver, "driver", "", "page session driver: rod or static (default rod)")
	f.BoolVar(&flags.debug, "debug", false, "log at debug level")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("elpais-opinion %s\n", version)
		},
	})

	return root
}

// loadConfig reads the config file and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command, flags *runFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("articles") {
		cfg.Run.Articles = flags.articles
	}
	if changed("paragraphs") {
		cfg.Run.Paragraphs = flags.paragraphs
	}
	if changed("threshold") {
		cfg.Run.RepeatThreshold = flags.threshold
	}
	if changed("from") {
		cfg.Run.SourceLang = flags.from
	}
	if changed("to") {
		cfg.Run.TargetLang = flags.to
	}
	if changed("driver") {
		cfg.Session.Driver = flags.driver
	}
	if flags.debug {
		cfg.Observability.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return cfg, nil
}

func run(parent context.Context, cfg *config.Config) (err error) {
	if parent == nil {
		parent = context.Background()
	}

	logger := observability.NewLogger(observability.Options{
		LogPath:    cfg.Observability.LogPath,
		LogLevel:   cfg.Observability.LogLevel,
		MaxSizeMB:  cfg.Observability.MaxSizeMB,
		MaxBackups: cfg.Observability.MaxBackups,
		MaxAgeDays: cfg.Observability.MaxAgeDays,
	})
	defer func() { _ = logger.Close() }()

	ctx, cancel := app.GracefulShutdown(parent, logger)
	defer cancel()

	selectors, err := scraper.ResolveSelectors(cfg.SelectorsFile)
	if err != nil {
		return fmt.Errorf("load selectors: %w", err)
	}

	if cfg.Translation.APIKey == "" {
		logger.Warn("Translation credential not set, titles will stay untranslated",
			"env", cfg.Translation.APIKeyEnv,
		)
	}
	translator := translate.NewClient(translate.Options{
		Endpoint: cfg.Translation.Endpoint,
		Host:     cfg.Translation.Host,
		APIKey:   cfg.Translation.APIKey,
		Timeout:  cfg.GetTranslationTimeout(),
	})

	page, err := session.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Page session could not be created", "driver", cfg.Session.Driver, "error", err)
		return err
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			logger.Warn("Failed to close page session", "error", closeErr)
		}
	}()

	report, runErr := app.NewPipeline(cfg, selectors, translator, logger).Run(ctx, page)
	if report != nil {
		if printErr := app.PrintReport(os.Stdout, report, cfg.Run.PreviewChars); printErr != nil {
			logger.Warn("Failed to print report", "error", printErr)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			logger.Warn("Run cancelled", "error", runErr)
		} else {
			logger.Error("Run aborted", "error", runErr)
		}
		return runErr
	}
	return nil
}
