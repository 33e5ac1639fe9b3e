package authclient

import (
	"context"
	"errors"
)

// InitializeFromStorage restores a persisted session on application
// start. A live access token restores the signed-in state without any
// network traffic; an expired one is exchanged through Refresh first.
// When nothing usable is stored, or the refresh is rejected, storage is
// cleared and the client stays signed out with a nil error.
func (c *Client) InitializeFromStorage(ctx context.Context) error {
	c.state.setLoading(true)

	access, err := c.store.AccessToken(ctx)
	if err != nil {
		c.log.Logf("[WARN] storage unreadable on startup: %v", err)
	}
	refresh, _ := c.store.RefreshToken(ctx)

	if access == "" && refresh == "" {
		c.metrics.Inc(MetricBootstrapCleared)
		c.state.clearAuth(nil)
		return nil
	}

	if access == "" || c.inspect.IsExpired(access) {
		if refresh == "" {
			c.metrics.Inc(MetricBootstrapCleared)
			c.clearSession(ctx, nil)
			return nil
		}
		access, err = c.Refresh(ctx)
		if err != nil {
			if errors.Is(err, ErrNetwork) {
				// Server unreachable; leave storage alone so the next
				// start can try again, but do not claim a session.
				c.state.clearAuth(err)
				return err
			}
			c.metrics.Inc(MetricBootstrapCleared)
			c.clearSession(ctx, nil)
			return nil
		}
	}

	user, err := c.store.User(ctx)
	if err != nil || user == nil {
		// Stored profile missing or corrupt; the token still works, so
		// ask the server who we are.
		user, err = c.fetchCurrentUser(ctx, access)
		if err != nil {
			c.metrics.Inc(MetricBootstrapCleared)
			c.clearSession(ctx, nil)
			return nil
		}
		if serr := c.store.SetUser(ctx, user); serr != nil {
			c.log.Logf("[WARN] restored profile not persisted: %v", serr)
		}
	}

	branch, _ := c.store.SelectedBranch(ctx)

	c.state.setAuthenticated(user, access, branch)
	c.startMonitor()
	c.metrics.Inc(MetricBootstrapRestored)
	c.log.Logf("[INFO] session restored for %q", user.Username)
	return nil
}

// CurrentUser fetches the authoritative profile from the server and
// updates state and storage with it.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	st := c.state.snapshot()
	if !st.IsAuthenticated {
		return nil, ErrNotAuthenticated
	}
	user, err := c.fetchCurrentUser(ctx, st.Token)
	if err != nil {
		return nil, err
	}
	if serr := c.store.SetUser(ctx, user); serr != nil {
		c.log.Logf("[WARN] profile not persisted: %v", serr)
	}
	c.state.setUser(user)
	return user, nil
}

func (c *Client) fetchCurrentUser(ctx context.Context, bearer string) (*User, error) {
	var data struct {
		User *User `json:"user"`
	}
	if err := c.getJSON(ctx, "/me", bearer, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, ErrBadResponse
	}
	return data.User, nil
}

// ValidateSession asks the server whether the current access token is
// still accepted. False with a nil error means a definitive rejection;
// an error means the question could not be answered.
func (c *Client) ValidateSession(ctx context.Context) (bool, error) {
	st := c.state.snapshot()
	if !st.IsAuthenticated {
		return false, nil
	}
	err := c.getJSON(ctx, "/validate", st.Token, nil)
	if err == nil {
		return true, nil
	}
	if isUnauthorized(err) {
		return false, nil
	}
	return false, err
}
