package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/observability"
	"github.com/google/uuid"
)

const (
	// DefaultBasePath is prefixed to every request path.
	DefaultBasePath = "/api"
	// DefaultTimeout bounds a single request/response exchange.
	DefaultTimeout = 300000 * time.Millisecond
	// RequestIDHeader carries a fresh correlation id on every request.
	RequestIDHeader = "X-Request-ID"
)

// Request describes one call relative to the base path.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body any
}

// Client is the shared HTTP client. It is safe for concurrent use.
type Client struct {
	endpoint  *url.URL
	basePath  string
	timeout   time.Duration
	userAgent string
	http      *http.Client
	stream    *http.Client
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option configures the Client.
type Option func(*Client)

// WithBasePath overrides DefaultBasePath.
func WithBasePath(p string) Option {
	return func(c *Client) {
		c.basePath = p
	}
}

// WithTimeout overrides DefaultTimeout for request/response calls. Streams are not affected.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient supplies the underlying client; its Transport is shared with streams.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets a structured logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records request counts and durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the service at endpoint (scheme and host, e.g. http://localhost:8000).
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme and host are required", endpoint)
	}

	u.RawQuery = ""
	u.Fragment = ""

	c := &Client{
		endpoint:  u,
		basePath:  DefaultBasePath,
		timeout:   DefaultTimeout,
		userAgent: "folio",
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http
	if base == nil {
		base = &http.Client{}
	}
	c.http = &http.Client{
		Transport:     base.Transport,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       c.timeout,
	}
	c.stream = &http.Client{
		Transport:     base.Transport,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
	}
	c.basePath = "/" + strings.Trim(c.basePath, "/")
	if c.basePath == "/" {
		c.basePath = ""
	}
	return c, nil
}

// BasePath returns the configured base path.
func (c *Client) BasePath() string { return c.basePath }

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// URL resolves a request path against the endpoint and base path.
// path is expected to be escaped already (see Path).
func (c *Client) URL(path string, query url.Values) string {
	s := strings.TrimRight(c.endpoint.String(), "/") + c.basePath + path
	if len(query) > 0 {
		s += "?" + query.Encode()
	}
	return s
}

// Do sends req and decodes a JSON response into out (when out is non-nil and the body is not empty).
// The returned Response always carries the raw body on success.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req, "application/json")
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req, 0, start)
		c.logger.Warn("request failed", "method", req.Method, "path", req.Path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(req, 0, start)
		return nil, fmt.Errorf("%w: read %s %s: %w", ErrTransport, req.Method, req.Path, err)
	}
	c.observe(req, resp.StatusCode, start)
	c.logger.Debug("request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", httpReq.Header.Get(RequestIDHeader),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := newRemoteError(req.Method, req.Path, resp.StatusCode, body)
		c.logger.Warn("request rejected", "method", req.Method, "path", req.Path, "status", resp.StatusCode, "detail", rerr.Detail)
		return nil, rerr
	}

	result := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return result, fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.Path, err)
		}
	}
	return result, nil
}

// Stream sends req asking for text/event-stream and returns the open response.
// The caller owns the body. No timeout applies; cancel ctx or close the body to stop.
func (c *Client) Stream(ctx context.Context, req Request) (*http.Response, error) {
	httpReq, err := c.newRequest(ctx, req, "text/event-stream")
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := c.stream.Do(httpReq)
	if err != nil {
		c.observe(req, 0, start)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.Path, err)
	}
	c.observe(req, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, newRemoteError(req.Method, req.Path, resp.StatusCode, body)
	}
	c.logger.Debug("stream opened", "method", req.Method, "path", req.Path, "request_id", httpReq.Header.Get(RequestIDHeader))
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, req Request, accept string) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %v", ErrInvalidRequest, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.URL(req.Path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	return httpReq, nil
}

func (c *Client) observe(req Request, status int, start time.Time) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	c.metrics.ObserveRequest(Resource(req.Path), method, status, time.Since(start))
}

// Resource is the first path segment ("/novels/n1/export" -> "novels"), used as a metric label.
func Resource(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if seg == "" {
		return "root"
	}
	return seg
}

// IsTimeout reports whether err is a transport failure caused by a deadline.
func IsTimeout(err error) bool {
	if !errors.Is(err, ErrTransport) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
