package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elpais-opinion/internal/config"
	"elpais-opinion/internal/fetcher"
	"elpais-opinion/internal/observability"
)

const listingHTML = `<html><body>
<article><h2><a href="/opinion/2024-10-01/uno.html#comentarios">Uno</a></h2></article>
<article><h2><a href="https://elpais.com/opinion/dos.html">Dos</a></h2></article>
<figure><img src="/img/portada.jpg" alt=""></figure>
</body></html>`

func newStaticPage(t *testing.T, handler http.Handler) (*StaticPage, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Session.Driver = config.DriverStatic
	cfg.HTTP.MaxRetries = 0
	cfg.RateLimit = config.RateLimitConfig{RPM: 60000, Burst: 10}

	return NewStaticPage(fetcher.NewFetcher(cfg, observability.NewNop())), srv
}

func TestStaticPageFindAllAndAttributes(t *testing.T) {
	page, srv := newStaticPage(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	}))
	ctx := context.Background()

	require.NoError(t, page.Navigate(ctx, srv.URL+"/opinion/"))
	require.NoError(t, page.WaitReady(ctx, time.Second))

	anchors, err := page.FindAll(ctx, "article h2 a")
	require.NoError(t, err)
	require.Len(t, anchors, 2)

	href, ok, err := anchors[0].Attribute(ctx, "href")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, srv.URL+"/opinion/2024-10-01/uno.html", href)

	text, err := anchors[1].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dos", text)

	imgs, err := page.FindAll(ctx, "figure img")
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	src, ok, err := imgs[0].Attribute(ctx, "src")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, srv.URL+"/img/portada.jpg", src)

	_, ok, err = imgs[0].Attribute(ctx, "data-src")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaticPageNoMatchIsEmpty(t *testing.T) {
	page, srv := newStaticPage(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	}))
	ctx := context.Background()
	require.NoError(t, page.Navigate(ctx, srv.URL))

	found, err := page.FindAll(ctx, "section.missing p")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStaticPageNavigationFailure(t *testing.T) {
	page, srv := newStaticPage(t, http.NotFoundHandler())
	ctx := context.Background()

	err := page.Navigate(ctx, srv.URL+"/gone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNavigation))
	assert.Error(t, page.WaitReady(ctx, time.Second))

	found, err := page.FindAll(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Session.Driver = "selenium"

	_, err := Open(context.Background(), cfg, observability.NewNop())
	assert.ErrorIs(t, err, ErrSessionFatal)
}

func TestOpenStaticDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Session.Driver = config.DriverStatic

	page, err := Open(context.Background(), cfg, observability.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &StaticPage{}, page)
	assert.NoError(t, page.Close())
}
