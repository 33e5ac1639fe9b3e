package authclient

import (
	"io"
	"net/http"
	"strings"
)

// Interceptor is an http.RoundTripper for the application's own API
// calls. It attaches the current access token, and on a 401 it refreshes
// once and retries the request with the new token. A 401 on the retry, or
// a failed refresh, forces a logout.
//
// Requests to the auth endpoints themselves pass through untouched so the
// refresh call cannot recurse into itself.
type Interceptor struct {
	base   http.RoundTripper
	client *Client
}

// Interceptor wraps base (nil means http.DefaultTransport) with token
// injection and the refresh-retry behavior.
func (c *Client) Interceptor(base http.RoundTripper) *Interceptor {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Interceptor{base: base, client: c}
}

// HTTPClient returns a ready-to-use client for application API calls,
// built on the interceptor.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{
		Transport: c.Interceptor(nil),
		Timeout:   c.cfg.Transport.Timeout,
	}
}

func (t *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	c := t.client

	if strings.HasPrefix(req.URL.Path, c.cfg.Transport.AuthPrefix) {
		return t.base.RoundTrip(req)
	}

	st := c.state.snapshot()
	first := cloneWithBearer(req, st.Token)
	setBranchHeader(first, st, req)

	resp, err := t.base.RoundTrip(first)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !st.IsAuthenticated {
		return resp, nil
	}

	// Retrying means replaying the body; requests that cannot be replayed
	// are returned as-is.
	if req.Body != nil && req.GetBody == nil {
		c.forceLogout(req.Context(), ErrSessionExpired)
		return resp, nil
	}

	fresh, rerr := c.Refresh(req.Context())
	if rerr != nil {
		// Refresh handled the forced logout itself when the token was
		// rejected; a transport failure keeps the session.
		return resp, nil
	}

	retry := cloneWithBearer(req, fresh)
	setBranchHeader(retry, st, req)
	if req.GetBody != nil {
		body, berr := req.GetBody()
		if berr != nil {
			return resp, nil
		}
		retry.Body = body
	}

	io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining before reuse
	resp.Body.Close()

	c.metrics.Inc(MetricRetryAfterRefresh)
	resp2, err := t.base.RoundTrip(retry)
	if err != nil {
		return nil, err
	}
	if resp2.StatusCode == http.StatusUnauthorized {
		c.forceLogout(req.Context(), ErrSessionExpired)
	}
	return resp2, nil
}

// setBranchHeader attaches X-Branch-ID from a context override or, failing
// that, the session's selected branch.
func setBranchHeader(clone *http.Request, st AuthState, orig *http.Request) {
	id := branchFromContext(orig.Context())
	if id == "" && st.SelectedBranch != nil {
		id = st.SelectedBranch.ID
	}
	if id != "" {
		clone.Header.Set("X-Branch-ID", id)
	}
}

// cloneWithBearer shallow-copies req with the Authorization header set.
// RoundTrippers must not mutate the caller's request.
func cloneWithBearer(req *http.Request, bearer string) *http.Request {
	clone := req.Clone(req.Context())
	if bearer != "" {
		clone.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		clone.Header.Del("Authorization")
	}
	return clone
}
