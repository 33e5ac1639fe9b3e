package authclient

import (
	"context"
	"errors"
)

// refreshResponse is the data payload of POST /refresh. The backend
// rotates the refresh token; older deployments omit the new one.
type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// errStaleRefresh marks a refresh that completed after the session it
// belonged to was torn down. Never returned to callers.
var errStaleRefresh = errors.New("refresh superseded by logout")

// Refresh exchanges the stored refresh token for a fresh access token.
// Concurrent callers collapse into a single network request and all
// receive its result. A server rejection of the refresh token forces a
// logout; a transport failure leaves the session untouched so a flaky
// network cannot sign the user out.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	gen := c.authGen.Load()

	tok, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		return c.doRefresh(ctx, gen)
	})
	if shared {
		c.metrics.Inc(MetricRefreshCoalesced)
	}
	if err != nil {
		if errors.Is(err, errStaleRefresh) {
			return "", ErrSessionExpired
		}
		return "", err
	}
	return tok.(string), nil
}

func (c *Client) doRefresh(ctx context.Context, gen uint64) (string, error) {
	refresh, err := c.store.RefreshToken(ctx)
	if err != nil {
		c.log.Logf("[WARN] refresh token unreadable: %v", err)
	}
	if refresh == "" {
		c.metrics.Inc(MetricRefreshFailure)
		c.forceLogout(ctx, ErrMissingRefreshToken)
		return "", ErrMissingRefreshToken
	}

	var data refreshResponse
	body := map[string]string{"refreshToken": refresh}
	if err := c.postJSON(ctx, "/refresh", "", body, &data); err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		if errors.Is(err, ErrNetwork) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.log.Logf("[WARN] refresh unreachable, keeping session: %v", err)
			return "", err
		}
		// The server looked at the token and said no.
		c.log.Logf("[WARN] refresh rejected: %v", err)
		c.forceLogout(ctx, ErrSessionExpired)
		return "", ErrSessionExpired
	}

	if data.AccessToken == "" {
		c.metrics.Inc(MetricRefreshFailure)
		return "", ErrBadResponse
	}

	// A logout may have raced the network round-trip. Its generation bump
	// happens before storage is cleared, so a stale result must not be
	// persisted or installed.
	if c.authGen.Load() != gen {
		c.log.Logf("[INFO] refresh result discarded, session ended meanwhile")
		return "", errStaleRefresh
	}

	if err := c.store.SetAccessToken(ctx, data.AccessToken); err != nil {
		c.log.Logf("[WARN] refreshed token not persisted: %v", err)
	}
	if data.RefreshToken != "" {
		if err := c.store.SetRefreshToken(ctx, data.RefreshToken); err != nil {
			c.log.Logf("[WARN] rotated refresh token not persisted: %v", err)
		}
	}

	c.state.setToken(data.AccessToken)
	c.RecordActivity()
	c.metrics.Inc(MetricRefreshSuccess)
	c.log.Logf("[DEBUG] access token refreshed")
	return data.AccessToken, nil
}

// RefreshIfExpiringSoon refreshes proactively when the current access
// token is inside the expiring-soon window. Returns the token in effect
// afterwards.
func (c *Client) RefreshIfExpiringSoon(ctx context.Context) (string, error) {
	st := c.state.snapshot()
	if !st.IsAuthenticated {
		return "", ErrNotAuthenticated
	}
	if st.Token != "" && !c.inspect.IsExpiringSoon(st.Token) && !c.inspect.IsExpired(st.Token) {
		return st.Token, nil
	}
	return c.Refresh(ctx)
}
