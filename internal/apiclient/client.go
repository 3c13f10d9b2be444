// Package apiclient is the HTTP transport to the booking backend.  It owns
// base URL handling, cookies and error unwrapping; the booking components
// only see the Transport interface and raw JSON bodies.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/t1112000/seatly-fe/internal/pkg/logger"
)

// Transport issues one request against the backend and returns the raw
// response body of a 2xx answer.  Paths are relative to the API root, e.g.
// "/v1/seats".  body is JSON-encoded when non-nil.
type Transport interface {
	Do(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// Client is the net/http implementation of Transport.  Each Client owns its
// own cookie jar so backend session cookies never leak between workspaces.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New returns a Client rooted at baseURL + "/api" with a fresh cookie jar.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		hc:      &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// Do implements Transport.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Message: extractMessage(respBody)}
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	if !json.Valid(respBody) {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrMalformedResponse)
	}
	return json.RawMessage(respBody), nil
}
