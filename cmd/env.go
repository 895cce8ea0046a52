package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/terralode/facility-cli/internal/geo"
	"github.com/terralode/facility-cli/internal/resolver"
	"github.com/terralode/facility-cli/internal/store"
	"github.com/terralode/facility-cli/pkg/matcher"
)

// openStore opens the configured facility store backend.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.SQLitePath)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// newResolver wires the fuzzy index client into an operator resolver.
func newResolver(ctx context.Context) *resolver.Resolver {
	client := matcher.New(cfg.Matcher.Key,
		matcher.WithBaseURL(cfg.Matcher.BaseURL),
		matcher.WithRateLimit(cfg.Matcher.RateRPS, cfg.Matcher.RateBurst),
	)
	return resolver.New(
		resolver.NewIndexMatcher(ctx, client),
		resolver.WithMinScore(cfg.Matcher.MinScore),
		resolver.WithLimit(cfg.Matcher.Limit),
	)
}

// newChecker builds the coordinate checker from the configured tables,
// falling back to built-in bounds and an empty fix table.
func newChecker() (*geo.Checker, error) {
	var bounds geo.BoundsTable
	if cfg.Geo.BoundsFile != "" {
		var err error
		bounds, err = geo.LoadBounds(cfg.Geo.BoundsFile)
		if err != nil {
			return nil, err
		}
	}

	var fixes geo.FixTable
	if cfg.Geo.FixesFile != "" {
		var err error
		fixes, err = geo.LoadFixes(cfg.Geo.FixesFile)
		if err != nil {
			return nil, err
		}
	}

	return geo.NewChecker(bounds, fixes), nil
}
