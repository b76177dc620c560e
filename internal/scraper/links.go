package scraper

import (
	"context"
	"fmt"
	"time"

	"elpais-opinion/internal/normalize"
	"elpais-opinion/internal/observability"
	"elpais-opinion/internal/session"
)

type LinkCollectorOptions struct {
	ReadyTimeout    time.Duration
	ConsentSelector string
	ConsentWait     time.Duration
}

// LinkCollector gathers article URLs from a listing page.
type LinkCollector struct {
	resolver *Resolver
	opts     LinkCollectorOptions
	logger   *observability.Logger
}

func NewLinkCollector(resolver *Resolver, opts LinkCollectorOptions, logger *observability.Logger) *LinkCollector {
	return &LinkCollector{
		resolver: resolver,
		opts:     opts,
		logger:   logger,
	}
}

// CollectLinks loads listingURL and reads href from the anchors of each
// selector list in turn, keeping unseen URLs until limit is reached. Only a
// failed navigation or cancellation is an error; finding nothing is not.
func (c *LinkCollector) CollectLinks(ctx context.Context, page session.Page, listingURL string, lists []SelectorList, limit int) (LinkSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return LinkSet{}, nil
	}

	if err := page.Navigate(ctx, listingURL); err != nil {
		return nil, fmt.Errorf("open listing %s: %w", listingURL, err)
	}
	if err := page.WaitReady(ctx, c.opts.ReadyTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("Listing not ready, querying anyway", "url", listingURL, "error", err)
	}

	c.dismissConsent(ctx, page)

	links := make(LinkSet, 0, limit)
	seen := make(map[string]struct{}, limit)

	for i, list := range lists {
		if len(links) >= limit {
			break
		}

		match := c.resolver.Resolve(ctx, page, fmt.Sprintf("listing_links[%d]", i), list, 0)
		if err := ctx.Err(); err != nil {
			return links, err
		}

		added := 0
		for _, el := range match.Elements {
			if len(links) >= limit {
				break
			}

			href, ok, err := el.Attribute(ctx, "href")
			if err != nil {
				c.logger.Debug("Failed to read href", "selector", match.Locator, "error", err)
				continue
			}
			if !ok {
				continue
			}

			link := normalize.ResolveURL(listingURL, href)
			if link == "" {
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}

			seen[link] = struct{}{}
			links = append(links, link)
			added++
		}

		c.logger.Debug("Selector list processed",
			"list", i,
			"selector", match.Locator,
			"matched", len(match.Elements),
			"added", added,
		)
	}

	if len(links) == 0 {
		c.logger.Warn("No article links found", "url", listingURL, "lists", len(lists))
	} else {
		c.logger.Info("Article links collected", "url", listingURL, "count", len(links), "limit", limit)
	}

	return links, nil
}

func (c *LinkCollector) dismissConsent(ctx context.Context, page session.Page) {
	if c.opts.ConsentSelector == "" {
		return
	}
	clicker, ok := page.(session.Clicker)
	if !ok {
		return
	}

	clicked, err := clicker.ClickIfPresent(ctx, c.opts.ConsentSelector, c.opts.ConsentWait)
	switch {
	case err != nil:
		c.logger.Warn("Cookie consent could not be dismissed", "selector", c.opts.ConsentSelector, "error", err)
	case clicked:
		c.logger.Info("Cookie consent accepted", "selector", c.opts.ConsentSelector)
	default:
		c.logger.Debug("Cookie consent banner not shown", "selector", c.opts.ConsentSelector)
	}
}
