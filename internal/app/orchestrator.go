package app

import (
	"context"
	"errors"
	"fmt"

	"elpais-opinion/internal/config"
	"elpais-opinion/internal/normalize"
	"elpais-opinion/internal/observability"
	"elpais-opinion/internal/scraper"
	"elpais-opinion/internal/session"
	"elpais-opinion/internal/translate"
	"elpais-opinion/internal/wordfreq"
)

type Orchestrator struct {
	cfg       *config.Config
	logger    *observability.Logger
	selectors *scraper.Selectors
	collector *scraper.LinkCollector
	extractor *scraper.ArticleExtractor
	batch     *translate.Batch
}

func NewOrchestrator(
	cfg *config.Config,
	logger *observability.Logger,
	selectors *scraper.Selectors,
	collector *scraper.LinkCollector,
	extractor *scraper.ArticleExtractor,
	batch *translate.Batch,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		logger:    logger,
		selectors: selectors,
		collector: collector,
		extractor: extractor,
		batch:     batch,
	}
}

// NewPipeline wires the scraping and translation components from cfg.
func NewPipeline(cfg *config.Config, selectors *scraper.Selectors, translator translate.Translator, logger *observability.Logger) *Orchestrator {
	resolver := scraper.NewResolver(logger.With("component", "resolver"))

	collector := scraper.NewLinkCollector(resolver, scraper.LinkCollectorOptions{
		ReadyTimeout:    cfg.GetReadyTimeout(),
		ConsentSelector: cfg.Session.ConsentSelector,
		ConsentWait:     cfg.GetConsentTimeout(),
	}, logger.With("component", "links"))

	normalizer := normalize.NewNormalizer(normalize.Options{
		TrimNBSP:       cfg.Normalize.TrimNBSP,
		CollapseSpaces: cfg.Normalize.CollapseSpaces,
	})
	extractor := scraper.NewArticleExtractor(resolver, selectors, normalizer, scraper.ExtractorOptions{
		ReadyTimeout: cfg.GetReadyTimeout(),
		SettleDelay:  cfg.GetSettleDelay(),
		ParagraphCap: cfg.Run.Paragraphs,
	}, logger.With("component", "extractor"))

	batch := translate.NewBatch(
		translator,
		translate.NewPacer(cfg.GetTranslationDelay(), cfg.Translation.MaxPerMinute),
		logger.With("component", "translate"),
	)

	return NewOrchestrator(cfg, logger, selectors, collector, extractor, batch)
}

// Report is everything one run produced.
type Report struct {
	ListingURL       string
	SourceLang       string
	TargetLang       string
	Threshold        int
	Articles         []scraper.ArticleRecord
	TranslatedTitles []string
	TitleFallback    []bool
	RepeatedWords    []wordfreq.WordCount
}

// Run drives the whole pipeline over page. Per-article and per-title
// failures are absorbed; the error is non-nil only when the session became
// unusable or ctx was cancelled, and the partial report is still returned.
func (o *Orchestrator) Run(ctx context.Context, page session.Page) (*Report, error) {
	run := o.cfg.Run
	report := &Report{
		ListingURL: run.ListingURL,
		SourceLang: run.SourceLang,
		TargetLang: run.TargetLang,
		Threshold:  run.RepeatThreshold,
	}

	o.logger.Info("Starting run",
		"listing_url", run.ListingURL,
		"articles", run.Articles,
		"paragraphs", run.Paragraphs,
		"threshold", run.RepeatThreshold,
		"from", run.SourceLang,
		"to", run.TargetLang,
	)

	links, err := o.collector.CollectLinks(ctx, page, run.ListingURL, o.selectors.ListingLinks, run.Articles)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, session.ErrSessionFatal) {
			return report, err
		}
		o.logger.Error("Listing could not be read", "url", run.ListingURL, "error", err)
	}

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		o.logger.Info("Processing article", "index", i+1, "of", len(links), "url", link)
		record, err := o.extractor.Extract(ctx, page, link)
		if err != nil {
			return report, fmt.Errorf("extract %s: %w", link, err)
		}
		report.Articles = append(report.Articles, record)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	titles := make([]string, len(report.Articles))
	for i, a := range report.Articles {
		titles[i] = a.Title
	}

	translated, err := o.batch.TranslateAll(ctx, titles, run.SourceLang, run.TargetLang)
	report.TranslatedTitles = translated.Texts
	report.TitleFallback = translated.Fallback
	if err != nil {
		return report, fmt.Errorf("translate titles: %w", err)
	}

	report.RepeatedWords = wordfreq.Analyze(translated.Texts, run.RepeatThreshold)

	o.logger.Info("Run completed",
		"articles", len(report.Articles),
		"titles_untranslated", translated.Fallbacks(),
		"repeated_words", len(report.RepeatedWords),
	)

	return report, nil
}
