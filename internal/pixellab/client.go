// Package pixellab is a thin client for the PixelLab REST API.
//
// The client performs exactly one HTTP request per call and never retries.
// Transport failures are returned wrapped in ErrTransport; any HTTP response,
// including 4xx/5xx, is returned as a *Response for the caller to interpret.
package pixellab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/pixellab-mcp/internal/common"
)

// defaultMaxResponseSize caps the response body; generated images arrive
// inline as base64.
const defaultMaxResponseSize = 50 << 20

// maxLoggedBody truncates bodies in debug logs.
const maxLoggedBody = 512

// ErrTransport marks failures where no complete HTTP response was received.
var ErrTransport = errors.New("pixellab transport error")

// ErrResponseTooLarge marks a response body over the client's size limit.
// It is always wrapped together with ErrTransport.
var ErrResponseTooLarge = errors.New("pixellab response too large")

// Client issues authenticated requests against the PixelLab API.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	maxBody    int64
	httpClient *http.Client
	noRedirect *http.Client
	logger     *common.Logger
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client. The redirect-free
// variant shares its transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxResponseSize overrides the response body limit.
func WithMaxResponseSize(n int64) ClientOption {
	return func(c *Client) {
		c.maxBody = n
	}
}

// NewClient creates a client for baseURL authenticated with apiKey.
// The default http.Client has no timeout; callers bound requests with ctx.
func NewClient(baseURL, apiKey string, logger *common.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		userAgent:  "pixellab-mcp/" + common.GetVersion(),
		maxBody:    defaultMaxResponseSize,
		httpClient: &http.Client{},
		logger:     logger,
	}
	if c.logger == nil {
		c.logger = common.NewSilentLogger()
	}
	for _, opt := range opts {
		opt(c)
	}
	c.noRedirect = &http.Client{
		Transport: c.httpClient.Transport,
		Timeout:   c.httpClient.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestConfig struct {
	query          url.Values
	accept         string
	followRedirect bool
	logger         *common.Logger
}

// RequestOption customises a single request.
type RequestOption func(*requestConfig)

// WithQuery appends query parameters to the request URL.
func WithQuery(q url.Values) RequestOption {
	return func(rc *requestConfig) {
		rc.query = q
	}
}

// WithoutRedirects returns 3xx responses as-is instead of following them.
func WithoutRedirects() RequestOption {
	return func(rc *requestConfig) {
		rc.followRedirect = false
	}
}

// WithAccept overrides the Accept header, for non-JSON endpoints.
func WithAccept(mime string) RequestOption {
	return func(rc *requestConfig) {
		rc.accept = mime
	}
}

// WithLogger logs the request with a call-scoped logger.
func WithLogger(l *common.Logger) RequestOption {
	return func(rc *requestConfig) {
		if l != nil {
			rc.logger = l
		}
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Do performs one HTTP request. body is JSON-encoded unless nil.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	rc := requestConfig{accept: "application/json", followRedirect: true, logger: c.logger}
	for _, opt := range opts {
		opt(&rc)
	}
	logger := rc.logger

	target := c.baseURL + path
	if len(rc.query) > 0 {
		target += "?" + rc.query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	logger.Debug().
		Str("method", method).
		Str("path", path).
		Msg("PixelLab request")

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", rc.accept)
	req.Header.Set("User-Agent", c.userAgent)

	hc := c.httpClient
	if !rc.followRedirect {
		hc = c.noRedirect
	}

	start := time.Now()
	resp, err := hc.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.Error().Err(err).Str("method", method).Str("path", path).Dur("duration", duration).Msg("PixelLab request failed")
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("PixelLab response read failed")
		return nil, fmt.Errorf("%w: reading response from %s: %v", ErrTransport, path, err)
	}
	if int64(len(data)) > c.maxBody {
		logger.Error().Str("path", path).Int64("limit", c.maxBody).Msg("PixelLab response too large")
		return nil, fmt.Errorf("%w: %w: %s %s exceeded %d bytes", ErrTransport, ErrResponseTooLarge, method, path, c.maxBody)
	}

	logger.Debug().
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Str("response", truncate(string(data), maxLoggedBody)).
		Msg("PixelLab response")

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
