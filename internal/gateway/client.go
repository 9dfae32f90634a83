// Package gateway is the typed accessor layer over the dashboard's JSON API.
// Every read goes through the shared response cache.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aghi-dashboard/internal/cache"
	"aghi-dashboard/internal/metrics"

	"github.com/goccy/go-json"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 30 * time.Second

// Client talks to the API rooted at base (for example http://localhost:5000/api).
type Client struct {
	base    string
	http    *http.Client
	cache   *cache.Cache
	timeout time.Duration
	log     *slog.Logger
}

// NewClient wires the HTTP client and response cache together. A zero
// timeout means DefaultTimeout.
func NewClient(base string, httpClient *http.Client, c *cache.Cache, timeout time.Duration, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if c == nil {
		c = cache.New()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    httpClient,
		cache:   c,
		timeout: timeout,
		log:     log,
	}
}

// Cache exposes the response cache shared by all calls.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// ClearCache empties the response cache.
func (c *Client) ClearCache() {
	c.cache.Clear()
	c.log.Info("cache_cleared")
}

// cached decodes the cached response for the request into out, fetching it
// first when absent or stale.
func (c *Client) cached(ctx context.Context, method, endpoint string, query url.Values, body any, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}
	key := cache.Key(method, endpoint, query, payload)
	raw, err := c.cache.Fetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, method, endpoint, query, payload)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// uncached performs the request every time.
func (c *Client) uncached(ctx context.Context, method, endpoint string, query url.Values, body any, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return err
	}
	raw, err := c.do(ctx, method, endpoint, query, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// peek decodes a fresh cached response without touching the network.
func (c *Client) peek(method, endpoint string, query url.Values, out any) bool {
	raw, ok := c.cache.Get(cache.Key(method, endpoint, query, nil))
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Warn("cache_decode_failed", "endpoint", endpoint, "err", err)
		return false
	}
	return true
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.base + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reqBody io.Reader
	if len(payload) > 0 {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	metrics.GatewayRequestsTotal.WithLabelValues(endpoint).Inc()
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GatewayDurationMs.WithLabelValues(endpoint).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.GatewayFailuresTotal.WithLabelValues(endpoint).Inc()
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("request timed out after %s: %w", c.timeout, err)
		}
		c.log.Warn("gateway_request_failed", "method", method, "endpoint", endpoint, "err", err)
		return nil, &RequestError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GatewayFailuresTotal.WithLabelValues(endpoint).Inc()
		return nil, &RequestError{Method: method, Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GatewayFailuresTotal.WithLabelValues(endpoint).Inc()
		c.log.Warn("gateway_bad_status", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &RequestError{Method: method, Endpoint: endpoint, Status: resp.StatusCode, Message: apiMessage(raw)}
	}
	if !json.Valid(raw) {
		metrics.GatewayFailuresTotal.WithLabelValues(endpoint).Inc()
		return nil, &RequestError{Method: method, Endpoint: endpoint, Status: resp.StatusCode, Message: "response is not valid JSON"}
	}
	c.log.Debug("gateway_request_ok", "method", method, "endpoint", endpoint, "bytes", len(raw))
	return raw, nil
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return payload, nil
}

// apiMessage pulls {"error": "..."} or {"message": "..."} out of an error body.
func apiMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
