// Package resolver maps free-text company mentions to canonical identities
// with calibrated confidence scores.
package resolver

import "context"

// Candidate is one ranked result from the external fuzzy company-name index.
// Score is the index's raw 0-100 similarity; headquarters is optional.
type Candidate struct {
	Identifier  string   `json:"identifier"`
	DisplayName string   `json:"display_name"`
	Score       float64  `json:"score"`
	HQLat       *float64 `json:"headquarters_lat,omitempty"`
	HQLon       *float64 `json:"headquarters_lon,omitempty"`
}

// Matcher abstracts the external fuzzy company-name index. Implementations
// return candidates ordered best-first; candidates below minScore are never
// returned. Scores are comparable across calls.
type Matcher interface {
	MatchBest(ctx context.Context, query string, limit, minScore int) ([]Candidate, error)
	// CorpusSize reports how many company names the index holds, for
	// observability. Implementations may return 0 when unknown.
	CorpusSize() int
}
