// Package cms is the HTTP client for the school's headless content store.
// It is the only place raw store payloads exist; everything leaves this
// package already normalized through internal/schema.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	cerrors "github.com/hughesschools/content-service/internal/errors"
	"github.com/hughesschools/content-service/internal/schema"
)

// HTTPClient abstracts HTTP calls for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SkipRecorder counts records dropped during normalization.
type SkipRecorder interface {
	RecordSkippedRecord(collection, reason string)
}

// Config holds the client's connection settings.
type Config struct {
	BaseURL string
	Token   string // optional bearer token
	Timeout time.Duration
}

// Client wraps the content store's REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
	norm       *schema.Normalizer
	skips      SkipRecorder
	logger     zerolog.Logger
}

// NewClient creates a content store client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{
		baseURL:    base,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		norm:       schema.New(schema.Config{BaseURL: base}),
		logger:     logger.With().Str("component", "cms").Logger(),
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(hc HTTPClient) {
	c.httpClient = hc
}

// SetMetrics sets the recorder for skipped-record counts.
func (c *Client) SetMetrics(rec SkipRecorder) {
	c.skips = rec
}

// BaseURL returns the store origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Normalizer returns the schema normalizer bound to this store's origin.
func (c *Client) Normalizer() *schema.Normalizer {
	return c.norm
}

// Ping checks store reachability for health probes.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events?pagination[pageSize]=1", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.applyHeaders(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pinging content store: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return cerrors.NewAPIError("cms", resp.StatusCode, "store unavailable")
	}
	return nil
}

// list executes a GET against a collection endpoint and returns the raw
// records, accepting both a bare JSON array and a {data: [...]} envelope.
func (c *Client) list(ctx context.Context, path string, query url.Values) ([]schema.Record, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, cerrors.NewAPIError("cms", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return decodeRecords(resp.Body)
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// decodeRecords reads a store response in any of its list shapes: a bare
// array, a {data: [...]} envelope, or a single object (bare or enveloped).
func decodeRecords(r io.Reader) ([]schema.Record, error) {
	var payload any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if env, ok := payload.(map[string]any); ok {
		if d, ok := env["data"]; ok {
			payload = d
		}
	}

	switch t := payload.(type) {
	case nil:
		return []schema.Record{}, nil
	case []any:
		out := make([]schema.Record, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, schema.Record(m))
			}
		}
		return out, nil
	case map[string]any:
		return []schema.Record{schema.Record(t)}, nil
	default:
		return nil, fmt.Errorf("unexpected response shape %T", payload)
	}
}
