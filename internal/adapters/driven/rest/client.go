package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Transport = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout   = domain.DefaultTimeout
	DefaultUserAgent = "bestiary-cli"

	// HeaderRequestID carries the per-request correlation id.
	HeaderRequestID = "X-Request-ID"

	// maxResponseBody bounds how much of a response is read.
	maxResponseBody = 8 << 20
)

// Config holds configuration for the REST transport.
type Config struct {
	// BaseURL is the collection endpoint, e.g. http://localhost:8080/api/creatures.
	BaseURL string

	// Timeout bounds each request (default: 10s).
	Timeout time.Duration

	// Token is sent as a bearer token when set.
	Token string

	// RateLimit caps requests per second. Zero disables throttling.
	RateLimit float64

	// UserAgent identifies the client (default: bestiary-cli).
	UserAgent string

	// HTTPClient overrides the underlying client. Timeout and Token are
	// ignored when set.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a transport config from application settings.
func ConfigFromSettings(s domain.APISettings) Config {
	return Config{
		BaseURL:   s.Endpoint,
		Timeout:   s.Timeout,
		Token:     s.Token,
		RateLimit: s.RateLimit,
	}
}

// Client sends driven.Requests to the remote collection as JSON over HTTP.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *RateLimiter
}

// NewClient creates a new REST transport.
func NewClient(cfg Config) (*Client, error) {
	if err := (domain.APISettings{Endpoint: cfg.BaseURL}).Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
		if cfg.Token != "" {
			src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
			client.Transport = &oauth2.Transport{Source: src, Base: http.DefaultTransport}
		}
	}

	return &Client{
		client:    client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		limiter:   NewRateLimiter(cfg.RateLimit),
	}, nil
}

// BaseURL returns the collection endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs req and returns the raw response body.
func (c *Client) Do(ctx context.Context, req driven.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader = http.NoBody
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(HeaderRequestID, requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("%s %s -> %d (%s, request %s)", method, target, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if err := c.limiter.CheckResponse(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := truncateBody(strings.TrimSpace(string(data)), maxErrorBody)
		return nil, &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       msg,
			RequestID:  requestID,
		}
	}

	return data, nil
}

// truncateBody cuts s to at most n bytes without splitting a rune.
func truncateBody(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
