package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/terralode/facility-cli/internal/geo"
	"github.com/terralode/facility-cli/internal/model"
)

// Proximity boost tiers. A headquarters at or near the facility strongly
// corroborates the name match; the second tier avoids a sharp cliff at the
// near threshold while keeping the boost bounded.
const (
	boostNearKM   = 10.0
	boostRegionKM = 100.0
	boostNear     = 0.10
	boostRegion   = 0.05
)

// canonicalPrefix namespaces company identifiers. Adapter identifiers may or
// may not already carry it; it is never applied twice.
const canonicalPrefix = "company:"

// Defaults for matcher queries.
const (
	defaultLimit    = 1
	defaultMinScore = 70
)

// Resolver resolves a free-text operator mention to one canonical company
// identity. Results, including negative ones, are memoized for the life of
// the run.
type Resolver struct {
	matcher  Matcher
	cache    *Cache
	limit    int
	minScore int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMinScore overrides the adapter score cutoff (default 70).
func WithMinScore(min int) Option {
	return func(r *Resolver) { r.minScore = min }
}

// WithLimit overrides how many candidates are requested (default 1).
func WithLimit(limit int) Option {
	return func(r *Resolver) { r.limit = limit }
}

// New creates a Resolver over the given name matcher.
func New(matcher Matcher, opts ...Option) *Resolver {
	r := &Resolver{
		matcher:  matcher,
		cache:    NewCache(),
		limit:    defaultLimit,
		minScore: defaultMinScore,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps rawName to a canonical company identity, or nil when no
// confident answer exists. facility, when present alongside a candidate
// headquarters, feeds the proximity boost. countryHint is advisory and only
// used for log context. Adapter faults are logged, treated as zero
// candidates, and not cached, so a transient failure cannot poison the run.
func (r *Resolver) Resolve(ctx context.Context, rawName string, facility *model.Coordinate, countryHint string) *model.ResolvedCompany {
	if strings.TrimSpace(rawName) == "" {
		return nil
	}

	key := cacheKey(rawName)
	if company, ok := r.cache.Get(key); ok {
		zap.L().Debug("resolver: cache hit", zap.String("query", key))
		return company
	}

	// The original text goes to the matcher unchanged; normalization is for
	// cache keying only.
	candidates, err := r.matcher.MatchBest(ctx, rawName, r.limit, r.minScore)
	if err != nil {
		zap.L().Warn("resolver: matcher call failed",
			zap.String("query", rawName),
			zap.String("country_hint", countryHint),
			zap.Error(err),
		)
		return nil
	}

	if len(candidates) == 0 {
		r.cache.Put(key, nil)
		return nil
	}

	best := candidates[0]
	company := &model.ResolvedCompany{
		CompanyID:   canonicalID(best.Identifier),
		DisplayName: best.DisplayName,
		Confidence:  best.Score / 100,
	}
	if best.HQLat != nil && best.HQLon != nil {
		company.Headquarters = &model.Coordinate{Lat: *best.HQLat, Lon: *best.HQLon}
	}

	company.Confidence = boosted(company.Confidence, facility, company.Headquarters)

	r.cache.Put(key, company)
	return company
}

// boosted applies the two-tier headquarters proximity boost and clamps the
// result to 1.0. Confidence is never reduced below the raw score.
func boosted(confidence float64, facility, hq *model.Coordinate) float64 {
	if facility == nil || hq == nil {
		return confidence
	}

	km := geo.DistanceKM(facility.Lat, facility.Lon, hq.Lat, hq.Lon)
	switch {
	case km <= boostNearKM:
		confidence += boostNear
	case km <= boostRegionKM:
		confidence += boostRegion
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// canonicalID applies the canonical namespace prefix exactly once.
func canonicalID(identifier string) string {
	if strings.HasPrefix(identifier, canonicalPrefix) {
		return identifier
	}
	return canonicalPrefix + identifier
}

// CacheSize reports how many queries (positive and negative) are memoized.
func (r *Resolver) CacheSize() int {
	return r.cache.Len()
}

// CorpusSize reports the adapter's corpus size for observability.
func (r *Resolver) CorpusSize() int {
	return r.matcher.CorpusSize()
}

// ClearCache drops all memoized resolutions.
func (r *Resolver) ClearCache() {
	r.cache.Clear()
}
