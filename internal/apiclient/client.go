package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const apiPrefix = "/api"

var ErrNotJSON = errors.New("response body is not JSON")

// Client talks to the planner backend. Every request carries the jar's
// cookies, so the backend session follows the client across calls.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

type Options struct {
	// Jar holds the backend session cookie. A fresh in-memory jar is used when nil.
	Jar http.CookieJar
	// Timeout of 0 means no timeout.
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *zap.Logger
}

func NewClient(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}

	jar := opts.Jar
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Jar:       jar,
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		logger: logger,
	}, nil
}

// BaseURL returns the backend origin (without the /api prefix).
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Response is a parsed JSON body. Non-2xx statuses are not errors.
type Response struct {
	StatusCode int
	Raw        json.RawMessage
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Text renders the body as a browser would stringify the parsed response,
// keeping the backend's key order.
func (r *Response) Text() string {
	text, err := Stringify(r.Raw)
	if err != nil {
		return string(r.Raw)
	}
	return text
}

// Do sends method (GET when empty) to /api+path with a JSON content type and
// returns the parsed body. body is serialized only when non-nil.
func (c *Client) Do(ctx context.Context, path, method string, body any) (*Response, error) {
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	endpoint := c.baseURL.String() + apiPrefix + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s %s (status %d): %w", method, path, resp.StatusCode, ErrNotJSON)
	}

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	return &Response{StatusCode: resp.StatusCode, Raw: raw}, nil
}
