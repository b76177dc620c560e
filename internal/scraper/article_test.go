package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elpais-opinion/internal/normalize"
	"elpais-opinion/internal/observability"
	"elpais-opinion/internal/session"
	"elpais-opinion/internal/session/sessiontest"
)

const articleURL = "https://elpais.com/opinion/2024-10-18/columna.html"

func newExtractor() *ArticleExtractor {
	logger := observability.NewNop()
	return NewArticleExtractor(
		NewResolver(logger),
		DefaultSelectors(),
		normalize.NewNormalizer(normalize.Options{TrimNBSP: true, CollapseSpaces: true}),
		ExtractorOptions{ParagraphCap: 3},
		logger,
	)
}

func extract(t *testing.T, page *sessiontest.Page) ArticleRecord {
	t.Helper()
	rec, err := newExtractor().Extract(context.Background(), page, articleURL)
	require.NoError(t, err)
	return rec
}

func TestExtractFullArticle(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{
		"article h1": sessiontest.Texts("  El futuro del clima "),
		"[data-dtm-region='articulo_cuerpo'] p": sessiontest.Texts(
			"Primer párrafo.", "Segundo   párrafo.", "Tercer párrafo.", "Cuarto párrafo.",
		),
		"figure img": {{Attrs: map[string]string{"src": "/imagenes/portada.jpg"}}},
	}

	rec := extract(t, page)

	assert.Equal(t, articleURL, rec.URL)
	assert.Equal(t, "El futuro del clima", rec.Title)
	assert.Equal(t, "Primer párrafo. Segundo párrafo. Tercer párrafo.", rec.Content)
	assert.Equal(t, "https://elpais.com/imagenes/portada.jpg", rec.ImageURL)
	assert.True(t, rec.HasImage())
}

func TestExtractDropsEmptyParagraphs(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{
		"[data-dtm-region='articulo_cuerpo'] p": sessiontest.Texts("Uno", "   ", "Tres", "Cuatro"),
	}

	rec := extract(t, page)

	// the cap applies before filtering, so "Cuatro" is never considered
	assert.Equal(t, "Uno Tres", rec.Content)
	assert.LessOrEqual(t, len(strings.Split(rec.Content, " ")), 3)
}

func TestExtractParagraphsFallBackWhenFirstMatchIsBlank(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{
		"[data-dtm-region='articulo_cuerpo'] p": sessiontest.Texts("", " "),
		"article .a_c p":                        sessiontest.Texts("Texto real"),
	}

	rec := extract(t, page)
	assert.Equal(t, "Texto real", rec.Content)
}

func TestExtractTitleStopsAtFirstMatchingLocator(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{
		"article h1": sessiontest.Texts("", "Titular"),
		"h1.a_t":     sessiontest.Texts("Otro titular"),
	}

	rec := extract(t, page)
	assert.Equal(t, "Titular", rec.Title)
}

func TestExtractTitleFallbackLayout(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{
		"main h1": sessiontest.Texts("Titular antiguo"),
	}

	rec := extract(t, page)
	assert.Equal(t, "Titular antiguo", rec.Title)
	assert.Empty(t, rec.Content)
	assert.False(t, rec.HasImage())
}

func TestExtractFieldFailuresAreIsolated(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{
		"article h1": {{TextErr: errors.New("stale element")}},
		"[data-dtm-region='articulo_cuerpo'] p": sessiontest.Texts("Cuerpo"),
		"figure img": {{Attrs: map[string]string{"data-src": "https://cdn.example.com/lazy.jpg"}}},
	}

	rec := extract(t, page)

	assert.Empty(t, rec.Title)
	assert.Equal(t, "Cuerpo", rec.Content)
	assert.Equal(t, "https://cdn.example.com/lazy.jpg", rec.ImageURL)
}

func TestExtractImageFromMetaTag(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{
		"meta[property='og:image']": {{Attrs: map[string]string{"content": "https://cdn.example.com/og.jpg"}}},
	}

	rec := extract(t, page)
	assert.Equal(t, "https://cdn.example.com/og.jpg", rec.ImageURL)
}

func TestExtractNavigationFailureYieldsEmptyRecord(t *testing.T) {
	page := sessiontest.NewPage()
	page.FailNavigate[articleURL] = true

	rec := extract(t, page)
	assert.Equal(t, ArticleRecord{URL: articleURL}, rec)
}

func TestExtractCancelledDuringSettle(t *testing.T) {
	logger := observability.NewNop()
	e := NewArticleExtractor(
		NewResolver(logger),
		DefaultSelectors(),
		normalize.NewNormalizer(normalize.Options{}),
		ExtractorOptions{ParagraphCap: 3, SettleDelay: time.Hour},
		logger,
	)
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{"article h1": sessiontest.Texts("Titular")}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	rec, err := e.Extract(ctx, page, articleURL)
	require.NoError(t, err)
	assert.Equal(t, ArticleRecord{URL: articleURL}, rec)
}

func TestExtractReportsLostSession(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[articleURL] = sessiontest.Document{"article h1": sessiontest.Texts("Titular")}
	page.NavigateErr = fmt.Errorf("%w: websocket closed", session.ErrSessionFatal)

	rec, err := newExtractor().Extract(context.Background(), page, articleURL)

	require.ErrorIs(t, err, session.ErrSessionFatal)
	assert.Equal(t, ArticleRecord{URL: articleURL}, rec)
	assert.Empty(t, page.Queries)
}
