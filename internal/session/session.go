// Package session defines the page capability the scraper drives and the
// drivers that provide it.
package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNavigation marks a failed page load.
	ErrNavigation = errors.New("navigation failed")
	// ErrSessionFatal marks a session that could not be created or is no
	// longer usable.
	ErrSessionFatal = errors.New("page session unavailable")
)

// Page is a single navigable, queryable page. It is not safe for
// concurrent use; the pipeline drives it from one goroutine.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context, timeout time.Duration) error
	// FindAll returns an empty slice, not an error, when nothing matches.
	FindAll(ctx context.Context, locator string) ([]Element, error)
	Close() error
}

// Element is a handle to one matched node.
type Element interface {
	Text(ctx context.Context) (string, error)
	// Attribute reports ok=false when the attribute is absent. URL-valued
	// attributes (href, src, data-src) come back absolute.
	Attribute(ctx context.Context, name string) (value string, ok bool, err error)
}

// Clicker is implemented by drivers that can interact with the page, such
// as dismissing a consent banner.
type Clicker interface {
	ClickIfPresent(ctx context.Context, locator string, wait time.Duration) (bool, error)
}

var urlAttributes = map[string]bool{
	"href":     true,
	"src":      true,
	"data-src": true,
}

func isURLAttribute(name string) bool {
	return urlAttributes[name]
}
