package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/terralode/facility-cli/pkg/matcher"
)

// IndexMatcher adapts the HTTP fuzzy-index client to the Matcher interface.
type IndexMatcher struct {
	client     matcher.Client
	corpusSize int
}

// NewIndexMatcher wraps an index client. Corpus size is fetched once at
// construction; a failure there is logged and reported as 0, it does not
// block resolution.
func NewIndexMatcher(ctx context.Context, client matcher.Client) *IndexMatcher {
	m := &IndexMatcher{client: client}
	stats, err := client.Stats(ctx)
	if err != nil {
		zap.L().Warn("resolver: index stats unavailable", zap.Error(err))
		return m
	}
	m.corpusSize = stats.CorpusSize
	return m
}

// MatchBest forwards the query to the index.
func (m *IndexMatcher) MatchBest(ctx context.Context, query string, limit, minScore int) ([]Candidate, error) {
	results, err := m.client.MatchBest(ctx, query, limit, minScore)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(results))
	for i, r := range results {
		candidates[i] = Candidate{
			Identifier:  r.Identifier,
			DisplayName: r.DisplayName,
			Score:       r.Score,
			HQLat:       r.HQLat,
			HQLon:       r.HQLon,
		}
	}
	return candidates, nil
}

// CorpusSize reports the index corpus size captured at construction.
func (m *IndexMatcher) CorpusSize() int {
	return m.corpusSize
}
