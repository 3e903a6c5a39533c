// Package collect gathers raw per-platform OSINT documents for an
// identifier. Each collector returns a model.PlatformData whose Data map
// feeds the correlation layer unchanged.
package collect

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shadowhorn/shadowhorn/internal/model"
	"github.com/shadowhorn/shadowhorn/internal/util"
	"github.com/shadowhorn/shadowhorn/internal/worker"
)

// Client is the shared HTTP layer for all collectors: per-domain rate
// limiting, a robots.txt checker and a byte cap.
type Client struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	userAgent  string
	maxBytes   int64
	checkRobot bool
}

// NewClient builds a collector client from configuration.
func NewClient(cfg *model.Config) *Client {
	timeout := cfg.HTTP.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rps := cfg.Collect.RequestsPerSec
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Collect.RateLimitBurst
	if burst <= 0 {
		burst = 5
	}

	maxBytes := cfg.HTTP.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, ""),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:    worker.NewLimiter(rps, burst),
		robots:     util.NewRobotsChecker(cfg.HTTP.UserAgent, timeout),
		userAgent:  cfg.HTTP.UserAgent,
		maxBytes:   maxBytes,
		checkRobot: cfg.Collect.RespectRobots,
	}
}

// get performs a rate-limited GET and returns the body bytes.
// HTML endpoints go through the robots.txt check; API endpoints skip it.
func (c *Client) get(ctx context.Context, rawURL string, html bool, headers map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	if html && c.checkRobot {
		allowed, crawlDelay, err := c.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
		if crawlDelay > 0 {
			select {
			case <-time.After(crawlDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if html {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// GetHTML fetches an HTML page as a string.
func (c *Client) GetHTML(ctx context.Context, rawURL string) (string, error) {
	body, err := c.get(ctx, rawURL, true, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON fetches a JSON endpoint and decodes into out. Extra headers
// carry per-platform auth tokens.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, out any) error {
	body, err := c.get(ctx, rawURL, false, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}
