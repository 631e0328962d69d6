// Package client talks to a vibe-gene server over its JSON API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/vibe-gene/internal/genome"
)

// DefaultTimeout is the HTTP timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// ErrNoData is returned when the server answers with a non-200 status.
var ErrNoData = errors.New("no data")

// Client fetches transcript annotations and search results.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTranscript fetches the full annotation of one transcript.
func (c *Client) FetchTranscript(ctx context.Context, genomeName, symbol, accession string) (*genome.Detail, error) {
	path := fmt.Sprintf("/api/transcripts/%s/%s/%s",
		url.PathEscape(genomeName), url.PathEscape(symbol), url.PathEscape(accession))

	var d genome.Detail
	if err := c.getJSON(ctx, path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// DynamicSearch returns gene symbols matching query mapped to gene names.
func (c *Client) DynamicSearch(ctx context.Context, genomeName, query string) (map[string]string, error) {
	path := fmt.Sprintf("/api/dynamic_search/%s?query=%s", url.PathEscape(genomeName), url.QueryEscape(query))

	results := make(map[string]string)
	if err := c.getJSON(ctx, path, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FetchGeneMap fetches the rendered SVG diagram of a transcript.
func (c *Client) FetchGeneMap(ctx context.Context, genomeName, symbol, accession string) ([]byte, error) {
	path := fmt.Sprintf("/api/genemap/%s/%s/%s.svg",
		url.PathEscape(genomeName), url.PathEscape(symbol), url.PathEscape(accession))

	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gene map: %w", err)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// get issues a GET and returns the response only for status 200.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		c.logger.Debug("request returned no data",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrNoData, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}
