// Package matcher provides a client for the company-name fuzzy match index.
package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the fuzzy index operations.
type Client interface {
	// MatchBest returns ranked candidates for a free-text company name.
	// Candidates below minScore are never returned.
	MatchBest(ctx context.Context, query string, limit, minScore int) ([]Candidate, error)
	// Stats returns index-level statistics.
	Stats(ctx context.Context) (*Stats, error)
}

// Candidate is one ranked match from the index.
type Candidate struct {
	Identifier  string   `json:"identifier"`
	DisplayName string   `json:"display_name"`
	Score       float64  `json:"score"`
	HQLat       *float64 `json:"headquarters_lat,omitempty"`
	HQLon       *float64 `json:"headquarters_lon,omitempty"`
}

// Stats holds index-level statistics.
type Stats struct {
	CorpusSize int `json:"corpus_size"`
}

// matchRequest is the POST /v1/match payload.
type matchRequest struct {
	Query    string `json:"query"`
	Limit    int    `json:"limit"`
	MinScore int    `json:"min_score"`
}

// matchResponse is the parsed match API response.
type matchResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Option configures the matcher client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit caps outbound requests per second. The index is shared
// infrastructure; the default is 10 rps with burst 5.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a matcher client.
func New(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://index.terralode.io",
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MatchBest queries the index for ranked candidates.
func (c *httpClient) MatchBest(ctx context.Context, query string, limit, minScore int) ([]Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "matcher: rate limit wait")
	}

	body, err := json.Marshal(matchRequest{Query: query, Limit: limit, MinScore: minScore})
	if err != nil {
		return nil, eris.Wrap(err, "matcher: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/match", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "matcher: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "matcher: match request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, eris.New(fmt.Sprintf("matcher: match returned %d: %s", resp.StatusCode, string(data)))
	}

	var parsed matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, eris.Wrap(err, "matcher: decode response")
	}
	return parsed.Candidates, nil
}

// Stats fetches index-level statistics.
func (c *httpClient) Stats(ctx context.Context) (*Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/stats", nil)
	if err != nil {
		return nil, eris.Wrap(err, "matcher: build stats request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "matcher: stats request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("matcher: stats returned %d", resp.StatusCode))
	}

	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, eris.Wrap(err, "matcher: decode stats")
	}
	return &stats, nil
}
