package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/flowlayout/pkg/observability"
)

// DefaultTimeout bounds a single HTTP round trip made through [Client].
const DefaultTimeout = 30 * time.Second

var (
	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrStatus is returned for non-retryable, non-2xx responses.
	ErrStatus = errors.New("unexpected status")
)

// Client posts JSON documents and decodes JSON responses.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with the given timeout and default headers.
// A zero timeout uses [DefaultTimeout]. Pass nil for headers if none are needed.
func NewClient(timeout time.Duration, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		headers: headers,
	}
}

// PostJSON marshals body, POSTs it to rawURL and decodes the JSON response into v.
// Network failures and 5xx responses are returned as [RetryableError].
func (c *Client) PostJSON(ctx context.Context, rawURL string, body, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	host, path := splitURL(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500 || code == http.StatusTooManyRequests:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if len(msg) > 0 {
			return fmt.Errorf("%w %d: %s", ErrStatus, code, bytes.TrimSpace(msg))
		}
		return fmt.Errorf("%w %d", ErrStatus, code)
	}
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
