// Package osu is a small client for the osu! API v2.
// It covers the client-credentials token exchange, user statistics and
// the performance ranking.
package osu

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/osustats/osustats/internal/metrics"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second

	userAgent = "osustats/1.0"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512
)

// NewHTTPClient creates an HTTP client for osu! API calls with the given total timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// Client performs authenticated reads against the osu! API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *Breaker
	metrics    metrics.Recorder
}

// NewClient creates a Client. A nil breaker disables circuit breaking,
// a nil recorder discards metrics.
func NewClient(baseURL string, httpClient *http.Client, breaker *Breaker, recorder metrics.Recorder) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(30 * time.Second)
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		breaker:    breaker,
		metrics:    recorder,
	}
}

// getJSON issues an authenticated GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, token string, query url.Values, out any, path ...string) error {
	start := time.Now()
	_, err := execute(c.breaker, func() (struct{}, error) {
		return struct{}{}, c.doGet(ctx, endpoint, token, query, out, path...)
	})
	c.metrics.ObserveUpstreamRequest(endpoint, upstreamStatus(err), time.Since(start))
	return err
}

func (c *Client) doGet(ctx context.Context, endpoint, token string, query url.Values, out any, path ...string) error {
	target, err := url.JoinPath(c.baseURL, path...)
	if err != nil {
		return fmt.Errorf("build %s url: %w", endpoint, err)
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}
