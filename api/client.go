// Package api is a client for the alumni-association REST backend.
//
// All calls go through Client.Do, which joins the endpoint to the base URL,
// sends JSON, attaches the session's bearer token when there is one, and
// turns non-2xx responses into *Error values.
package api

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

	"github.com/google/uuid"

	"alumni/session"
)

const (
	// DefaultBaseURL matches the backend the web front end proxies /api to.
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultTimeout = 30 * time.Second

	requestIDHeader = "X-Request-ID"
)

type Client struct {
	baseURL        string
	http           *http.Client
	timeout        time.Duration
	session        *session.Session
	logger         *slog.Logger
	onUnauthorized func(ctx context.Context)

	Auth      *AuthService
	User      *UserService
	Events    *EventService
	Jobs      *JobService
	Donations *DonationService
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUnauthorizedHandler replaces what happens when an authenticated
// request gets a 401. The default clears the session.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New returns a client for the backend at baseURL. baseURL must be absolute;
// a trailing slash is ignored.
func New(baseURL string, sess *session.Session, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if sess == nil {
		return nil, errors.New("api: nil session")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		session: sess,
		logger:  slog.Default(),
	}
	c.onUnauthorized = c.clearSession
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}

	c.Auth = &AuthService{c: c}
	c.User = &UserService{c: c}
	c.Events = &EventService{c: c}
	c.Jobs = &JobService{c: c}
	c.Donations = &DonationService{c: c}
	return c, nil
}

func (c *Client) Session() *session.Session {
	return c.session
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request and decodes a 2xx JSON body into out (which may be
// nil). Extra headers override the defaults.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, headers http.Header, out any) error {
	token, err := c.session.Token(ctx)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, method, endpoint, body, token, headers)
	if err != nil {
		return err
	}
	requestID := req.Header.Get(requestIDHeader)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "endpoint", endpoint, "request_id", requestID, "err", err)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s response: %w", ErrTransport, method, endpoint, err)
	}
	c.logger.Debug("api call",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"request_id", requestID,
		"authenticated", token != "",
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(resp.StatusCode, data, requestID)
		if resp.StatusCode == http.StatusUnauthorized && token != "" && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any, token string, headers http.Header) (*http.Request, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

// clearSession is the default 401 policy: the stored token is no longer
// accepted, so drop it.
func (c *Client) clearSession(ctx context.Context) {
	if err := c.session.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error("failed to clear session after 401", "err", err)
		return
	}
	c.logger.Info("session cleared after unauthorized response")
}

// decodeList accepts either a bare JSON array or an object holding the
// array under key.
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return []T{}, nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	items := []T{}
	if inner, ok := wrapped[key]; ok && string(bytes.TrimSpace(inner)) != "null" {
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, err
		}
	}
	return items, nil
}
