// Package sessiontest provides an in-memory session.Page for tests.
package sessiontest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elpais-opinion/internal/session"
)

// Node is a canned element.
type Node struct {
	Text    string
	Attrs   map[string]string
	TextErr error
}

// Document maps locators to the nodes they match.
type Document map[string][]Node

// Page serves Documents by URL and records what was asked of it.
type Page struct {
	Docs map[string]Document
	// FailNavigate makes Navigate fail for these URLs.
	FailNavigate map[string]bool
	// NavigateErr, when set, is returned by every Navigate after the first
	// AllowNavigations calls.
	NavigateErr      error
	AllowNavigations int
	// FailQuery makes FindAll fail for these locators.
	FailQuery map[string]bool

	// Clickable lists locators ClickIfPresent will find.
	Clickable map[string]bool

	Visited []string
	Queries []string
	Closed  bool

	current Document
	clicked []string
}

func NewPage() *Page {
	return &Page{
		Docs:         map[string]Document{},
		FailNavigate: map[string]bool{},
		FailQuery:    map[string]bool{},
		Clickable:    map[string]bool{},
	}
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Visited = append(p.Visited, url)
	p.current = nil
	if p.NavigateErr != nil && len(p.Visited) > p.AllowNavigations {
		return p.NavigateErr
	}
	if p.FailNavigate[url] {
		return fmt.Errorf("%w: %s", session.ErrNavigation, url)
	}
	doc, ok := p.Docs[url]
	if !ok {
		return fmt.Errorf("%w: %s: not found", session.ErrNavigation, url)
	}
	p.current = doc
	return nil
}

func (p *Page) WaitReady(ctx context.Context, _ time.Duration) error {
	if p.current == nil {
		return errors.New("no document")
	}
	return ctx.Err()
}

func (p *Page) FindAll(ctx context.Context, locator string) ([]session.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.Queries = append(p.Queries, locator)
	if p.FailQuery[locator] {
		return nil, fmt.Errorf("query %q failed", locator)
	}
	nodes := p.current[locator]
	out := make([]session.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, element{node: n})
	}
	return out, nil
}

func (p *Page) ClickIfPresent(ctx context.Context, locator string, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !p.Clickable[locator] {
		return false, nil
	}
	p.clicked = append(p.clicked, locator)
	return true, nil
}

// Clicked lists the locators clicked so far.
func (p *Page) Clicked() []string {
	return p.clicked
}

func (p *Page) Close() error {
	p.Closed = true
	return nil
}

type element struct {
	node Node
}

func (e element) Text(context.Context) (string, error) {
	if e.node.TextErr != nil {
		return "", e.node.TextErr
	}
	return e.node.Text, nil
}

func (e element) Attribute(_ context.Context, name string) (string, bool, error) {
	v, ok := e.node.Attrs[name]
	return v, ok, nil
}

// Anchors builds link nodes for the given hrefs.
func Anchors(hrefs ...string) []Node {
	nodes := make([]Node, 0, len(hrefs))
	for _, h := range hrefs {
		nodes = append(nodes, Node{Attrs: map[string]string{"href": h}})
	}
	return nodes
}

// Texts builds text nodes.
func Texts(texts ...string) []Node {
	nodes := make([]Node, 0, len(texts))
	for _, t := range texts {
		nodes = append(nodes, Node{Text: t})
	}
	return nodes
}
