// Package engine provides the public Go SDK for the answer engine API.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the public SDK client for the answer engine.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientConfig holds client configuration.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new answer engine client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8090"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// AnswerRequest represents an answer query request.
type AnswerRequest struct {
	Query         string            `json:"query"`
	Language      string            `json:"language,omitempty"`
	CallerContext map[string]string `json:"callerContext,omitempty"`
	MaxUpsell     int               `json:"maxUpsell,omitempty"`
}

// AnswerResponse represents an answer query response.
type AnswerResponse struct {
	RequestID      string   `json:"requestId"`
	Answered       bool     `json:"answered"`
	Message        string   `json:"message"`
	NoAnswerReason string   `json:"noAnswerReason,omitempty"`
	AnchorID       string   `json:"anchorId,omitempty"`
	Category       string   `json:"category,omitempty"`
	UpsellIDs      []string `json:"upsellIds,omitempty"`
	Tags           []Tag    `json:"tags,omitempty"`
	LatencyMs      int64    `json:"latencyMs"`
}

// Tag represents one detected intent tag.
type Tag struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Answer executes an answer query against the engine.
func (c *Client) Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	var out AnswerResponse
	if err := c.post(ctx, "/v1/answer", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoriesResponse lists the catalog's categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Version    int64    `json:"version"`
}

// Categories lists the categories the engine can answer about.
func (c *Client) Categories(ctx context.Context) (*CategoriesResponse, error) {
	var out CategoriesResponse
	if err := c.get(ctx, "/v1/catalog/categories", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatsResponse reports entry counts per category.
type StatsResponse struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	Version    int64          `json:"version"`
}

// Stats reports catalog statistics.
func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var out StatsResponse
	if err := c.get(ctx, "/v1/catalog/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health checks the service health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
