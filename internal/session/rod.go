package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"elpais-opinion/internal/config"
	"elpais-opinion/internal/normalize"
	"elpais-opinion/internal/observability"
)

// RodPage drives a single tab of a locally launched Chrome.
type RodPage struct {
	launcher    *launcher.Launcher
	browser     *rod.Browser
	page        *rod.Page
	pageTimeout time.Duration
	logger      *observability.Logger
	url         string
}

// NewRodPage launches Chrome and opens one tab. Any failure here is
// ErrSessionFatal and leaves nothing running.
func NewRodPage(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*RodPage, error) {
	l := launcher.New().
		Context(ctx).
		Headless(!cfg.Rod.ShowBrowser).
		Set("lang", cfg.Run.SourceLang).
		Set("window-size", fmt.Sprintf("%d,%d", cfg.Rod.WindowWidth, cfg.Rod.WindowHeight))
	if cfg.Rod.ChromePath != "" {
		l = l.Bin(cfg.Rod.ChromePath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: launch chrome: %v", ErrSessionFatal, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: connect to chrome: %v", ErrSessionFatal, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("%w: open tab: %v", ErrSessionFatal, err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  cfg.Rod.WindowWidth,
		Height: cfg.Rod.WindowHeight,
	}); err != nil {
		logger.Warn("Failed to size viewport", "error", err)
	}

	logger.Info("Browser session started",
		"headless", !cfg.Rod.ShowBrowser,
		"lang", cfg.Run.SourceLang,
	)

	return &RodPage{
		launcher:    l,
		browser:     browser,
		page:        page,
		pageTimeout: cfg.GetRodPageTimeout(),
		logger:      logger,
	}, nil
}

func (p *RodPage) Navigate(ctx context.Context, url string) error {
	p.url = url

	opCtx, release := operationContext(ctx, p.pageTimeout)
	defer release()
	page := p.page.Context(opCtx)

	if err := page.Navigate(url); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if browserGone(err) {
			return fmt.Errorf("%w: %s: %v", ErrSessionFatal, url, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	return nil
}

// WaitReady waits for the load event and then confirms document.readyState.
func (p *RodPage) WaitReady(ctx context.Context, timeout time.Duration) error {
	opCtx, release := operationContext(ctx, timeout)
	defer release()
	page := p.page.Context(opCtx)

	if err := page.WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if browserGone(err) {
			return fmt.Errorf("%w: wait for load: %v", ErrSessionFatal, err)
		}
		return fmt.Errorf("wait for load: %w", err)
	}

	res, err := page.Eval(`() => document.readyState`)
	if err != nil {
		if browserGone(err) {
			return fmt.Errorf("%w: read document state: %v", ErrSessionFatal, err)
		}
		return fmt.Errorf("read document state: %w", err)
	}
	if state := res.Value.Str(); state != "complete" {
		p.logger.Debug("Document not complete after load", "url", p.url, "state", state)
	}
	return nil
}

func (p *RodPage) FindAll(ctx context.Context, locator string) ([]Element, error) {
	found, err := p.page.Context(ctx).Elements(locator)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("query %q: %w", locator, err)
	}

	elements := make([]Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &rodElement{el: el, base: p.url})
	}
	return elements, nil
}

// ClickIfPresent waits up to wait for locator and clicks it. A missing
// element is not an error.
func (p *RodPage) ClickIfPresent(ctx context.Context, locator string, wait time.Duration) (bool, error) {
	opCtx, release := operationContext(ctx, wait)
	defer release()
	page := p.page.Context(opCtx)

	el, err := page.Element(locator)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return false, nil
		}
		return false, fmt.Errorf("locate %q: %w", locator, err)
	}

	if err := el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, fmt.Errorf("click %q: %w", locator, err)
	}
	return true, nil
}

// Close shuts the tab and the browser and removes the temporary profile.
func (p *RodPage) Close() error {
	var errs []error
	if p.page != nil {
		if err := p.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close tab: %w", err))
		}
	}
	if p.browser != nil {
		if err := p.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if p.launcher != nil {
		p.launcher.Cleanup()
	}
	return errors.Join(errs...)
}

// operationContext bounds one page operation by d. release stops the
// deadline timer and must be called once the operation returns.
func operationContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

// browserGone reports whether err means the devtools connection to Chrome
// is lost, as opposed to a single page failing to load.
func browserGone(err error) bool {
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, cdp.ErrSessionNotFound):
		return true
	}
	return false
}

type rodElement struct {
	el   *rod.Element
	base string
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *rodElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	value, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	if isURLAttribute(name) {
		return normalize.ResolveURL(e.base, *value), true, nil
	}
	return strings.TrimSpace(*value), true, nil
}
