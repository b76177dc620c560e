package session

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"elpais-opinion/internal/fetcher"
	"elpais-opinion/internal/normalize"
)

// StaticPage serves server-rendered HTML over plain HTTP and queries it with
// goquery. It cannot run scripts, so client-rendered content is invisible.
type StaticPage struct {
	fetcher *fetcher.Fetcher
	doc     *goquery.Document
	url     string
}

func NewStaticPage(f *fetcher.Fetcher) *StaticPage {
	return &StaticPage{fetcher: f}
}

func (p *StaticPage) Navigate(ctx context.Context, url string) error {
	p.doc = nil
	p.url = url

	resp, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: status %d", ErrNavigation, url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return fmt.Errorf("%w: failed to parse HTML: %v", ErrNavigation, err)
	}

	p.doc = doc
	p.url = resp.URL
	return nil
}

// WaitReady is immediate: a fetched document is already complete.
func (p *StaticPage) WaitReady(ctx context.Context, _ time.Duration) error {
	if p.doc == nil {
		return fmt.Errorf("%w: no document loaded", ErrNavigation)
	}
	return ctx.Err()
}

func (p *StaticPage) FindAll(ctx context.Context, locator string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.doc == nil {
		return nil, nil
	}

	sel := p.doc.Find(locator)
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &staticElement{sel: s, base: p.url})
	})
	return elements, nil
}

func (p *StaticPage) Close() error {
	p.doc = nil
	return nil
}

type staticElement struct {
	sel  *goquery.Selection
	base string
}

func (e *staticElement) Text(_ context.Context) (string, error) {
	return e.sel.Text(), nil
}

func (e *staticElement) Attribute(_ context.Context, name string) (string, bool, error) {
	value, ok := e.sel.Attr(name)
	if !ok {
		return "", false, nil
	}
	if isURLAttribute(name) {
		value = normalize.ResolveURL(e.base, value)
	}
	return strings.TrimSpace(value), true, nil
}
