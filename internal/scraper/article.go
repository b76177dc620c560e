package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"elpais-opinion/internal/normalize"
	"elpais-opinion/internal/observability"
	"elpais-opinion/internal/session"
)

type ExtractorOptions struct {
	ReadyTimeout time.Duration
	ParagraphCap int

	// SettleDelay is waited after the page reports ready so client-side
	// rendering can fill in the body. Slow pages may still be captured
	// incomplete.
	SettleDelay time.Duration
}

// ArticleExtractor reads title, lead paragraphs and cover image from one
// article page. Each field fails on its own.
type ArticleExtractor struct {
	resolver   *Resolver
	selectors  *Selectors
	normalizer *normalize.Normalizer
	opts       ExtractorOptions
	logger     *observability.Logger
}

func NewArticleExtractor(
	resolver *Resolver,
	selectors *Selectors,
	normalizer *normalize.Normalizer,
	opts ExtractorOptions,
	logger *observability.Logger,
) *ArticleExtractor {
	if opts.ParagraphCap <= 0 {
		opts.ParagraphCap = 3
	}
	return &ArticleExtractor{
		resolver:   resolver,
		selectors:  selectors,
		normalizer: normalizer,
		opts:       opts,
		logger:     logger,
	}
}

// Extract reads one article. A page that cannot be opened yields a record
// with only URL set, and a field that cannot be read is left empty. The
// error is non-nil only when the session itself is lost
// (session.ErrSessionFatal); cancellation is left for the caller to check.
func (e *ArticleExtractor) Extract(ctx context.Context, page session.Page, articleURL string) (ArticleRecord, error) {
	record := ArticleRecord{URL: articleURL}
	log := e.logger.With("url", articleURL)

	if ctx.Err() != nil {
		return record, nil
	}

	if err := page.Navigate(ctx, articleURL); err != nil {
		if errors.Is(err, session.ErrSessionFatal) {
			log.Error("Page session lost", "error", err)
			return record, err
		}
		log.Warn("Article navigation failed", "error", err)
		return record, nil
	}
	if err := page.WaitReady(ctx, e.opts.ReadyTimeout); err != nil {
		if ctx.Err() != nil {
			return record, nil
		}
		if errors.Is(err, session.ErrSessionFatal) {
			log.Error("Page session lost", "error", err)
			return record, err
		}
		log.Warn("Article not ready, extracting anyway", "error", err)
	}

	if !sleep(ctx, e.opts.SettleDelay) {
		return record, nil
	}

	record.Title = e.field(ctx, log, "title", func() string { return e.extractTitle(ctx, page, log) })
	record.Content = e.field(ctx, log, "content", func() string { return e.extractContent(ctx, page, log) })
	record.ImageURL = e.field(ctx, log, "image", func() string { return e.extractImage(ctx, page, articleURL, log) })

	log.Info("Article extracted",
		"title_found", record.Title != "",
		"content_chars", len(record.Content),
		"image_found", record.HasImage(),
	)

	return record, nil
}

// field runs one extraction and turns a driver panic into an empty value so
// the remaining fields still run.
func (e *ArticleExtractor) field(ctx context.Context, log *observability.Logger, name string, extract func() string) (value string) {
	if ctx.Err() != nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("Field extraction panicked", "field", name, "panic", fmt.Sprint(r))
			value = ""
		}
	}()

	value = extract()
	if value == "" {
		log.Info("Field not found", "field", name)
	}
	return value
}

func (e *ArticleExtractor) extractTitle(ctx context.Context, page session.Page, log *observability.Logger) string {
	match := e.resolver.Resolve(ctx, page, "title", e.selectors.TitleSelectors, 0)
	for _, el := range match.Elements {
		text, err := el.Text(ctx)
		if err != nil {
			log.Debug("Failed to read title text", "selector", match.Locator, "error", err)
			continue
		}
		if text = e.normalizer.CleanText(text); text != "" {
			return text
		}
	}
	return ""
}

func (e *ArticleExtractor) extractContent(ctx context.Context, page session.Page, log *observability.Logger) string {
	var paragraphs []string

	e.resolver.ResolveEach(ctx, page, "content", e.selectors.ParagraphSelectors, e.opts.ParagraphCap, func(m Match) bool {
		paragraphs = paragraphs[:0]
		for _, el := range m.Elements {
			text, err := el.Text(ctx)
			if err != nil {
				log.Debug("Failed to read paragraph text", "selector", m.Locator, "error", err)
				continue
			}
			if text = e.normalizer.CleanText(text); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
		return len(paragraphs) > 0
	})

	return strings.Join(paragraphs, " ")
}

func (e *ArticleExtractor) extractImage(ctx context.Context, page session.Page, articleURL string, log *observability.Logger) string {
	match := e.resolver.Resolve(ctx, page, "image", e.selectors.ImageSelectors, 1)
	if !match.Found() {
		return ""
	}

	el := match.Elements[0]
	for _, attr := range e.selectors.ImageAttributes {
		value, ok, err := el.Attribute(ctx, attr)
		if err != nil {
			log.Debug("Failed to read image attribute", "selector", match.Locator, "attribute", attr, "error", err)
			continue
		}
		if ok && strings.TrimSpace(value) != "" {
			return normalize.ResolveURL(articleURL, value)
		}
	}
	return ""
}

// sleep waits d or until ctx is done, reporting whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
