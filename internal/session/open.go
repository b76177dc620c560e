package session

import (
	"context"
	"fmt"

	"elpais-opinion/internal/config"
	"elpais-opinion/internal/fetcher"
	"elpais-opinion/internal/observability"
)

// Open creates the page session named by cfg.Session.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *observability.Logger) (Page, error) {
	switch cfg.Session.Driver {
	case config.DriverRod:
		page, err := NewRodPage(ctx, cfg, logger.With("driver", config.DriverRod))
		if err != nil {
			return nil, err
		}
		return page, nil
	case config.DriverStatic:
		return NewStaticPage(fetcher.NewFetcher(cfg, logger.With("driver", config.DriverStatic))), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrSessionFatal, cfg.Session.Driver)
	}
}
