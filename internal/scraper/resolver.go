package scraper

import (
	"context"

	"elpais-opinion/internal/observability"
	"elpais-opinion/internal/session"
)

// Match is what one locator of a SelectorList produced.
type Match struct {
	Locator  string
	Elements []session.Element
}

// Found reports whether the match holds anything.
func (m Match) Found() bool {
	return len(m.Elements) > 0
}

type Resolver struct {
	logger *observability.Logger
}

func NewResolver(logger *observability.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve returns the elements of the first locator in selectors that
// matches anything, truncated to maxResults when maxResults > 0. Later
// locators are not queried once one matches. No match is an empty Match.
func (r *Resolver) Resolve(ctx context.Context, page session.Page, field string, selectors SelectorList, maxResults int) Match {
	return r.ResolveEach(ctx, page, field, selectors, maxResults, func(Match) bool { return true })
}

// ResolveEach walks selectors in order and offers every non-empty match to
// accept, stopping at the first one accepted. It returns that match, or an
// empty Match when no locator produced an accepted result.
func (r *Resolver) ResolveEach(ctx context.Context, page session.Page, field string, selectors SelectorList, maxResults int, accept func(Match) bool) Match {
	for _, locator := range selectors {
		if ctx.Err() != nil {
			return Match{}
		}

		elements, err := page.FindAll(ctx, locator)
		if err != nil {
			r.logger.Warn("Selector query failed",
				"field", field,
				"selector", locator,
				"error", err,
			)
			continue
		}
		if len(elements) == 0 {
			continue
		}

		if maxResults > 0 && len(elements) > maxResults {
			elements = elements[:maxResults]
		}

		m := Match{Locator: locator, Elements: elements}
		if accept(m) {
			r.logger.Debug("Selector matched",
				"field", field,
				"selector", locator,
				"count", len(elements),
			)
			return m
		}

		r.logger.Debug("Selector match rejected",
			"field", field,
			"selector", locator,
		)
	}

	r.logger.Debug("Field not found", "field", field, "selectors", len(selectors))
	return Match{}
}
