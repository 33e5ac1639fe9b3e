package authclient

import "context"

// Logout ends the session. The server is notified best-effort with the
// current refresh token; local state and storage are cleared regardless,
// so Logout never fails because the server was unreachable. Calling it
// while already signed out is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	st := c.state.snapshot()
	if !st.IsAuthenticated {
		return nil
	}

	refresh, _ := c.store.RefreshToken(ctx)
	if refresh != "" {
		body := map[string]string{"refreshToken": refresh}
		if err := c.postJSON(ctx, "/logout", st.Token, body, nil); err != nil {
			c.log.Logf("[WARN] server-side logout failed: %v", err)
		}
	}

	c.metrics.Inc(MetricLogout)
	c.log.Logf("[INFO] user logged out")
	c.clearSession(ctx, nil)
	return nil
}

// forceLogout clears the session without a server round-trip, used when
// the client itself decides the session is over (idle expiry, refresh
// rejection, unrecoverable 401). cause explains why.
func (c *Client) forceLogout(ctx context.Context, cause error) {
	st := c.state.snapshot()
	if !st.IsAuthenticated {
		return
	}
	c.metrics.Inc(MetricForcedLogout)
	c.log.Logf("[WARN] forced logout: %v", cause)
	c.clearSession(ctx, cause)
	c.bus.Publish(TopicForcedLogout, cause)
}

// clearSession is the single place that tears down an authenticated
// session: generation bump first, so in-flight refreshes land dead, then
// storage, idle tracker, and state.
func (c *Client) clearSession(ctx context.Context, cause error) {
	c.authGen.Add(1)
	if err := c.store.ClearAll(ctx); err != nil {
		c.log.Logf("[WARN] storage clear failed: %v", err)
	}
	c.stopMonitor()
	c.state.clearAuth(cause)
}
