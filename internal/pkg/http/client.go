package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/ramein/internal/pkg/circuitbreaker"
	"github.com/piresc/ramein/internal/pkg/logger"
)

const maxResponseBody = 1 << 20

// HTTPError is returned for non-2xx responses
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Observer receives one callback per attempt; status is 0 when the request failed before a response
type Observer func(operation string, status int, err error, elapsed time.Duration)

// Config configures a Client
type Config struct {
	Name          string
	BaseURL       string
	Timeout       time.Duration
	BasicAuthUser string
	Breaker       circuitbreaker.Config
	Observer      Observer
}

// Client is a JSON HTTP client guarded by a circuit breaker. Every Do is a
// single attempt; callers own any retry policy.
type Client struct {
	name       string
	baseURL    string
	authUser   string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	observer   Observer
}

// Request describes one call
type Request struct {
	Operation string
	Method    string
	Path      string
	Body      interface{}
	Header    http.Header
}

// Response is a fully read response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient creates a new HTTP client. Outbound calls are reported to New Relic
// as external segments when the context carries a transaction.
func NewClient(cfg Config, l *logger.ZapLogger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.DefaultConfig(cfg.Name)
	}
	// client errors mean the upstream is healthy
	cfg.Breaker.IsFailure = func(err error) bool {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.StatusCode >= 500
		}
		return err != nil && !errors.Is(err, context.Canceled)
	}

	return &Client{
		name:     cfg.Name,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		authUser: cfg.BasicAuthUser,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
		breaker:  circuitbreaker.New(cfg.Breaker, l),
		observer: cfg.Observer,
	}
}

// Breaker exposes the client's circuit breaker
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// Do sends the request. The returned Response is set for non-2xx answers too,
// together with an *HTTPError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var resp *Response
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.send(ctx, req, payload)
		return err
	})
	return resp, err
}

func (c *Client) send(ctx context.Context, req Request, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.authUser != "" {
		httpReq.SetBasicAuth(c.authUser, "")
	}
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(req.Operation, 0, err, start)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		c.observe(req.Operation, httpResp.StatusCode, err, start)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: respBody}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		httpErr := &HTTPError{StatusCode: httpResp.StatusCode, Body: respBody}
		c.observe(req.Operation, httpResp.StatusCode, httpErr, start)
		return resp, httpErr
	}

	c.observe(req.Operation, httpResp.StatusCode, nil, start)
	return resp, nil
}

func (c *Client) observe(operation string, status int, err error, start time.Time) {
	if c.observer != nil {
		c.observer(operation, status, err, time.Since(start))
	}
}
