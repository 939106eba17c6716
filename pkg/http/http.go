// Package http is a fluent, retry-aware HTTP client used by the API suites
// to talk to the mock server or a real deployment.
//
//	api := http.NewClient(env.APIBaseURL)
//	resp, err := api.Get("/users").Query("region", "eu").Send()
//
//	var out struct{ Users []User `json:"users"` }
//	err = resp.JSON(&out)
//
//	resp, err = api.Post("/users").
//	    Body(map[string]any{"username": "alice_us"}).
//	    Retry(3, time.Second).
//	    Send()
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	gohttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/e2esuite/pkg/logger"
)

var defaultTransport = &gohttp.Transport{
	Proxy:               gohttp.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is used by requests that do not carry their own client.
// Tests may swap its Transport and restore it with ResetTransport.
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the pooled transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// ------------------- Client -------------------

// Client resolves relative endpoints against a base URL.
type Client struct {
	baseURL string
	http    *gohttp.Client
	headers map[string]string
	timeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sends through hc instead of DefaultClient.
func WithHTTPClient(hc *gohttp.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithHeader sets a header on every request the client builds.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.headers[key] = value }
}

// WithTimeout sets the default per-attempt timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: map[string]string{},
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base every relative endpoint is joined to.
func (c *Client) BaseURL() string { return c.baseURL }

// URL joins endpoint to the base URL. Absolute URLs pass through.
func (c *Client) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if endpoint == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) Get(endpoint string) *Request    { return c.request(gohttp.MethodGet, endpoint) }
func (c *Client) Post(endpoint string) *Request   { return c.request(gohttp.MethodPost, endpoint) }
func (c *Client) Put(endpoint string) *Request    { return c.request(gohttp.MethodPut, endpoint) }
func (c *Client) Patch(endpoint string) *Request  { return c.request(gohttp.MethodPatch, endpoint) }
func (c *Client) Delete(endpoint string) *Request { return c.request(gohttp.MethodDelete, endpoint) }

func (c *Client) request(method, endpoint string) *Request {
	r := newRequest(method, c.URL(endpoint))
	r.client = c.http
	r.timeout = c.timeout
	return r.Headers(c.headers)
}

// ------------------- Request -------------------

// Request is a fluent HTTP request builder.
type Request struct {
	method    string
	url       string
	query     url.Values
	headers   map[string]string
	body      any
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
	client    *gohttp.Client
}

func Get(rawURL string) *Request    { return newRequest(gohttp.MethodGet, rawURL) }
func Post(rawURL string) *Request   { return newRequest(gohttp.MethodPost, rawURL) }
func Put(rawURL string) *Request    { return newRequest(gohttp.MethodPut, rawURL) }
func Patch(rawURL string) *Request  { return newRequest(gohttp.MethodPatch, rawURL) }
func Delete(rawURL string) *Request { return newRequest(gohttp.MethodDelete, rawURL) }

func newRequest(method, rawURL string) *Request {
	return &Request{
		method:    method,
		url:       rawURL,
		query:     url.Values{},
		headers:   map[string]string{"Accept": "application/json"},
		timeout:   30 * time.Second,
		retries:   1,
		retryWait: 500 * time.Millisecond,
		ctx:       context.Background(),
	}
}

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

func (r *Request) Headers(h map[string]string) *Request {
	for k, v := range h {
		r.headers[k] = v
	}
	return r
}

// Bearer sets Authorization: Bearer <token>.
func (r *Request) Bearer(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

// Query adds a query-string parameter.
func (r *Request) Query(key, value string) *Request {
	r.query.Add(key, value)
	return r
}

// Body sets the request body. Strings and byte slices are sent raw; anything
// else is marshalled to JSON.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry sets the total attempts (1 = no retry) and the initial backoff, which
// doubles after each failed attempt. Only transport errors are retried; any
// HTTP status is a result.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	if n < 1 {
		n = 1
	}
	r.retries = n
	r.retryWait = wait
	return r
}

func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Method and URL report what Send will hit.
func (r *Request) Method() string { return r.method }

func (r *Request) URL() string {
	if len(r.query) == 0 {
		return r.url
	}
	sep := "?"
	if strings.Contains(r.url, "?") {
		sep = "&"
	}
	return r.url + sep + r.query.Encode()
}

// ------------------- Send -------------------

func (r *Request) Send() (*Response, error) {
	var lastErr error
	backoff := r.retryWait

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, err := r.do()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt == r.retries {
			break
		}

		logger.Warn("http: request failed, retrying",
			"url", r.URL(), "attempt", attempt, "backoff", backoff, "error", err)

		select {
		case <-r.ctx.Done():
			return nil, fmt.Errorf("http: %s %s: %w", r.method, r.URL(), r.ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("http: all %d attempts failed for %s %s: %w", r.retries, r.method, r.URL(), lastErr)
}

func (r *Request) do() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", ct)
	}

	client := r.client
	if client == nil {
		client = DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	logger.Debug("http: response",
		"method", r.method, "url", req.URL.String(), "status", resp.StatusCode, "duration", time.Since(start).String())

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
		Method:     r.method,
		URL:        req.URL.String(),
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return strings.NewReader(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// ------------------- Response -------------------

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
	Method     string
	URL        string
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the body into dest.
func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON from %s %s: %w", r.Method, r.URL, err)
	}
	return nil
}

func (r *Response) Text() string {
	return string(r.Raw)
}

func (r *Response) Header(key string) string {
	return r.Headers.Get(key)
}

// Throw returns an error if the status is not 2xx.
func (r *Response) Throw() error {
	if !r.OK() {
		return fmt.Errorf("http: %s %s failed with status %d: %s", r.Method, r.URL, r.StatusCode, string(r.Raw))
	}
	return nil
}
