package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elpais-opinion/internal/observability"
	"elpais-opinion/internal/session"
	"elpais-opinion/internal/session/sessiontest"
)

const listing = "https://elpais.com/opinion/"

func newCollector(consent string) *LinkCollector {
	logger := observability.NewNop()
	return NewLinkCollector(NewResolver(logger), LinkCollectorOptions{ConsentSelector: consent}, logger)
}

func TestCollectLinksDedupesAndLimits(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[listing] = sessiontest.Document{
		"article h2 a": sessiontest.Anchors(
			"https://elpais.com/opinion/a.html",
			"https://elpais.com/opinion/b.html",
			"https://elpais.com/opinion/a.html",
			"https://elpais.com/opinion/c.html",
			"https://elpais.com/opinion/b.html",
			"https://elpais.com/opinion/d.html",
			"https://elpais.com/opinion/e.html",
			"https://elpais.com/opinion/f.html",
		),
	}

	links, err := newCollector("").CollectLinks(context.Background(), page, listing, []SelectorList{{"article h2 a"}}, 5)
	require.NoError(t, err)

	assert.Equal(t, LinkSet{
		"https://elpais.com/opinion/a.html",
		"https://elpais.com/opinion/b.html",
		"https://elpais.com/opinion/c.html",
		"https://elpais.com/opinion/d.html",
		"https://elpais.com/opinion/e.html",
	}, links)
}

func TestCollectLinksFallsThroughSelectorLists(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[listing] = sessiontest.Document{
		"article h2 a": sessiontest.Anchors("/opinion/a.html", "/opinion/b.html#comments"),
		"h2.c_t a":     sessiontest.Anchors("https://elpais.com/opinion/b.html", "/opinion/c.html"),
		"div.legacy a": sessiontest.Anchors("/opinion/d.html"),
	}
	lists := []SelectorList{
		{"article h2 a"},
		{"article .missing a", "h2.c_t a"},
		{"div.legacy a"},
	}

	links, err := newCollector("").CollectLinks(context.Background(), page, listing, lists, 3)
	require.NoError(t, err)

	assert.Equal(t, LinkSet{
		"https://elpais.com/opinion/a.html",
		"https://elpais.com/opinion/b.html",
		"https://elpais.com/opinion/c.html",
	}, links)
	// limit reached before the third list
	assert.NotContains(t, page.Queries, "div.legacy a")
}

func TestCollectLinksNothingFound(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[listing] = sessiontest.Document{}

	links, err := newCollector("").CollectLinks(context.Background(), page, listing, []SelectorList{{"article h2 a"}, {"h2 a"}}, 5)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestCollectLinksSkipsAnchorsWithoutHref(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[listing] = sessiontest.Document{
		"article h2 a": {
			{Text: "no href"},
			{Attrs: map[string]string{"href": "  "}},
			{Attrs: map[string]string{"href": "/opinion/ok.html"}},
		},
	}

	links, err := newCollector("").CollectLinks(context.Background(), page, listing, []SelectorList{{"article h2 a"}}, 5)
	require.NoError(t, err)
	assert.Equal(t, LinkSet{"https://elpais.com/opinion/ok.html"}, links)
}

func TestCollectLinksNavigationFailure(t *testing.T) {
	page := sessiontest.NewPage()
	page.FailNavigate[listing] = true

	_, err := newCollector("").CollectLinks(context.Background(), page, listing, []SelectorList{{"a"}}, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, session.ErrNavigation))
}

func TestCollectLinksDismissesConsent(t *testing.T) {
	page := sessiontest.NewPage()
	page.Docs[listing] = sessiontest.Document{"a": sessiontest.Anchors("/x.html")}
	page.Clickable["#didomi-notice-agree-button"] = true

	_, err := newCollector("#didomi-notice-agree-button").CollectLinks(context.Background(), page, listing, []SelectorList{{"a"}}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"#didomi-notice-agree-button"}, page.Clicked())
}

func TestCollectLinksCancelled(t *testing.T) {
	page := sessiontest.NewPage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCollector("").CollectLinks(ctx, page, listing, []SelectorList{{"a"}}, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, page.Visited)
}
