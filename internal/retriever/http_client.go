package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPConfig holds HTTP retriever settings.
type HTTPConfig struct {
	Endpoint      string
	Timeout       time.Duration
	MinSimilarity float64
}

// HTTPClient talks to a similarity-search service over JSON/HTTP.
type HTTPClient struct {
	endpoint      string
	timeout       time.Duration
	minSimilarity float64
	client        *http.Client
}

// NewHTTPClient creates an HTTP retriever client.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPClient{
		endpoint:      cfg.Endpoint,
		timeout:       timeout,
		minSimilarity: cfg.MinSimilarity,
		client:        &http.Client{},
	}
}

type searchRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
	TopK     int    `json:"top_k"`
}

type searchResponse struct {
	Results []Candidate `json:"results"`
}

// Search executes one similarity query with a bounded deadline. Transport
// failures map to ErrUnavailable, deadline overruns to ErrTimeout; the
// caller decides how to surface them.
func (c *HTTPClient) Search(ctx context.Context, query, language string, topK int) ([]Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(searchRequest{
		Query:    query,
		Language: language,
		TopK:     topK,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	// Drop hits below the configured similarity floor; the retriever's
	// own ranking stands otherwise.
	candidates := make([]Candidate, 0, len(out.Results))
	for _, cand := range out.Results {
		if cand.Similarity >= c.minSimilarity {
			candidates = append(candidates, cand)
		}
	}

	return candidates, nil
}
