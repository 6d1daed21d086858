// Package client is the HTTP façade over the Meshline REST API. A Client
// carries the session store, the realtime channel handle, and a navigator
// explicitly; there are no process-wide singletons.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/meshline/meshline-go/internal/config"
	"github.com/meshline/meshline-go/internal/realtime"
	"github.com/meshline/meshline-go/internal/session"
)

// ErrUnauthorized marks a 401 response. By the time a caller sees it the
// forced logout has already run.
var ErrUnauthorized = errors.New("authentication failed")

// APIError is any other non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Body)
}

// Navigator moves the client UI to a new view after a forced logout.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// package-level logger; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/client. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Client wraps an HTTP client configured with a fixed base address and JSON
// content type. Every request attaches the stored credential when one
// exists; any 401 response clears the session, disconnects the realtime
// channel, and navigates to the login view.
type Client struct {
	cfg     config.APIConfig
	base    *url.URL
	http    *http.Client
	session *session.Store
	channel realtime.Channel
	nav     Navigator
}

// New creates a Client. sess is required. A nil httpClient gets a default
// with the configured timeout; a nil channel gets a handle over an
// in-memory transport; a nil nav is a no-op.
func New(cfg config.APIConfig, httpClient *http.Client, sess *session.Store, ch realtime.Channel, nav Navigator) (*Client, error) {
	if sess == nil {
		return nil, fmt.Errorf("session store is required")
	}

	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Jar == nil {
		// cookies ride along on every request, as a browser client would send them
		jar, jarErr := cookiejar.New(nil)
		if jarErr != nil {
			return nil, fmt.Errorf("cookie jar: %w", jarErr)
		}
		httpClient.Jar = jar
	}
	if ch == nil {
		ch = realtime.NewHandle(realtime.NewMemoryTransport(), logger)
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}

	c := &Client{
		cfg:     cfg,
		base:    u,
		http:    httpClient,
		session: sess,
		channel: ch,
		nav:     nav,
	}
	logger.Info("client: created", slog.String("base_url", cfg.BaseURL), slog.Duration("timeout", cfg.Timeout))
	return c, nil
}

// NewDefaultClient creates a Client with a tuned HTTP transport.
func NewDefaultClient(cfg config.APIConfig, sess *session.Store, ch realtime.Channel, nav Navigator) (*Client, error) {
	defaultClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return New(cfg, defaultClient, sess, ch, nav)
}

// Channel exposes the realtime handle for consumers of incoming pushes.
func (c *Client) Channel() realtime.Channel { return c.channel }

// Session exposes the session store.
func (c *Client) Session() *session.Store { return c.session }

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do issues one JSON request and decodes the body into out (when non-nil).
// Idempotent GETs retry on transport failures and 5xx responses with linear
// backoff; every other verb runs exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet && c.cfg.MaxAttempts > 1 {
		attempts = c.cfg.MaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.Backoff * time.Duration(attempt)):
			}
		}

		err := c.once(ctx, method, path, query, bytes.NewReader(payload), "application/json", payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
	}

	return lastErr
}

// once performs a single exchange. payloadCtx is logged on failure.
func (c *Client) once(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, payloadCtx []byte, out any) error {
	target := c.endpoint(path, query)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if tok, tokErr := c.session.Token(ctx); tokErr == nil {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	logger.Debug("api: call", slog.String("method", method), slog.String("url", target))

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("api: transport failure",
			slog.String("method", method),
			slog.String("url", target),
			slog.String("payload", snippet(payloadCtx)),
			slog.Any("err", err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout(ctx)
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("api: error response",
			slog.String("method", method),
			slog.String("url", target),
			slog.Int("status", resp.StatusCode),
			slog.String("payload", snippet(payloadCtx)),
		)
		return &APIError{Status: resp.StatusCode, Body: string(b)}
	}

	logger.Debug("api: success", slog.String("method", method), slog.String("url", target), slog.Int("status", resp.StatusCode))

	if out != nil && len(b) > 0 {
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// forceLogout runs the 401 recovery. The credential is cleared and the
// channel disconnected before navigation, so a fresh page load cannot see a
// stale credential.
func (c *Client) forceLogout(ctx context.Context) {
	if err := c.session.Clear(ctx); err != nil {
		logger.Error("client: clear session on 401", slog.Any("err", err))
	}
	c.channel.Disconnect()
	c.nav.Navigate(c.cfg.LoginPath + "?expired=true")
}

func retryable(err error) bool {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}

func snippet(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
