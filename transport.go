package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Doer is the minimal HTTP client surface. *http.Client satisfies it;
// tests substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// maxResponseBody caps how much of a reply the client will buffer.
const maxResponseBody = 1 << 20

// endpoint resolves an auth route against the configured origin.
func (c *Client) endpoint(path string) string {
	return c.cfg.BaseURL + c.cfg.Transport.AuthPrefix + path
}

// doJSON performs one request and decodes the envelope's data field into
// out (when out is non-nil). A non-empty bearer is attached as the
// Authorization header. Transport failures wrap ErrNetwork; non-2xx
// replies come back as *APIError; a 2xx reply that does not parse is
// ErrBadResponse.
func (c *Client) doJSON(ctx context.Context, method, url, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var env envelope
	parseable := json.Unmarshal(raw, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if parseable {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if !parseable || !env.Success {
		return ErrBadResponse
	}
	if out != nil {
		if len(env.Data) == 0 {
			return ErrBadResponse
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return ErrBadResponse
		}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path, bearer string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.endpoint(path), bearer, payload, out)
}

func (c *Client) getJSON(ctx context.Context, path, bearer string, out any) error {
	return c.doJSON(ctx, http.MethodGet, c.endpoint(path), bearer, nil, out)
}

// isUnauthorized reports whether err is a server 401.
func isUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}
